// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/models"
)

// wireMovie is the lenient decode target for catalog payloads. Fields with
// an unexpected type decode to their zero value instead of failing the
// whole response.
type wireMovie struct {
	ID          json.RawMessage `json:"id"`
	Title       json.RawMessage `json:"title"`
	Genres      json.RawMessage `json:"genres"`
	Rating      json.RawMessage `json:"rating"`
	Director    json.RawMessage `json:"director"`
	Cast        json.RawMessage `json:"cast"`
	ReleaseDate json.RawMessage `json:"release_date"`
	ReleaseAlt  json.RawMessage `json:"releaseDate"`
	Duration    json.RawMessage `json:"duration"`
	Poster      json.RawMessage `json:"poster"`
	Status      json.RawMessage `json:"status"`
}

func (w *wireMovie) movie() models.Movie {
	m := models.Movie{
		ID:          int(rawNumber(w.ID)),
		Title:       rawString(w.Title),
		Genres:      rawGenres(w.Genres),
		Rating:      rawNumber(w.Rating),
		Director:    rawString(w.Director),
		Cast:        rawStrings(w.Cast),
		ReleaseDate: rawString(w.ReleaseDate),
		Duration:    int(rawNumber(w.Duration)),
		Poster:      rawString(w.Poster),
		Status:      rawString(w.Status),
	}
	if m.ReleaseDate == "" {
		m.ReleaseDate = rawString(w.ReleaseAlt)
	}
	if m.Rating < 0 || m.Rating > 10 {
		m.Rating = 0
	}
	if m.Duration < 0 {
		m.Duration = 0
	}
	return m
}

// decodeMovies accepts either a bare array or an object wrapping the array
// under "movies", "results" or "data".
func decodeMovies(body []byte) ([]models.Movie, error) {
	body = bytes.TrimSpace(body)
	var wires []wireMovie
	if len(body) > 0 && body[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("decode movie list: %w", err)
		}
		var list json.RawMessage
		for _, key := range []string{"movies", "results", "data"} {
			if raw, ok := envelope[key]; ok {
				list = raw
				break
			}
		}
		if list == nil {
			return nil, fmt.Errorf("decode movie list: no movies array in response")
		}
		body = list
	}
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, fmt.Errorf("decode movie list: %w", err)
	}

	movies := make([]models.Movie, 0, len(wires))
	for i := range wires {
		movies = append(movies, wires[i].movie())
	}
	return movies, nil
}

// decodeMovie accepts a bare object or one wrapped under "movie" or "data".
func decodeMovie(body []byte) (models.Movie, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.Movie{}, fmt.Errorf("decode movie: %w", err)
	}
	for _, key := range []string{"movie", "data"} {
		if raw, ok := envelope[key]; ok && len(raw) > 0 && raw[0] == '{' {
			body = raw
			break
		}
	}
	var w wireMovie
	if err := json.Unmarshal(body, &w); err != nil {
		return models.Movie{}, fmt.Errorf("decode movie: %w", err)
	}
	return w.movie(), nil
}

func rawString(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

func rawNumber(raw json.RawMessage) float64 {
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	// Some catalogs quote numbers.
	if s := rawString(raw); s != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

func rawStrings(raw json.RawMessage) []string {
	var out []string
	if json.Unmarshal(raw, &out) == nil {
		return out
	}
	if s := rawString(raw); s != "" {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// rawGenres accepts {"id", "name"} objects and bare genre names. Weights
// are keyed by ID, so a name without an ID is mapped through genreID and
// entries with neither are dropped.
func rawGenres(raw json.RawMessage) []models.Genre {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return nil
	}
	genres := make([]models.Genre, 0, len(items))
	for _, item := range items {
		if name := strings.TrimSpace(rawString(item)); name != "" {
			genres = append(genres, namedGenre(name))
			continue
		}
		var obj struct {
			ID   json.RawMessage `json:"id"`
			Name json.RawMessage `json:"name"`
		}
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		name := strings.TrimSpace(rawString(obj.Name))
		switch {
		case obj.ID != nil:
			genres = append(genres, models.Genre{ID: int(rawNumber(obj.ID)), Name: name})
		case name != "":
			genres = append(genres, namedGenre(name))
		}
	}
	return genres
}

// knownGenres maps lowercased names to the catalog's standard genre IDs.
var knownGenres = map[string]models.Genre{}

func init() {
	for _, g := range []models.Genre{
		{ID: 28, Name: "Action"},
		{ID: 12, Name: "Adventure"},
		{ID: 16, Name: "Animation"},
		{ID: 35, Name: "Comedy"},
		{ID: 80, Name: "Crime"},
		{ID: 99, Name: "Documentary"},
		{ID: 18, Name: "Drama"},
		{ID: 10751, Name: "Family"},
		{ID: 14, Name: "Fantasy"},
		{ID: 36, Name: "History"},
		{ID: 27, Name: "Horror"},
		{ID: 10402, Name: "Music"},
		{ID: 9648, Name: "Mystery"},
		{ID: 10749, Name: "Romance"},
		{ID: 878, Name: "Science Fiction"},
		{ID: 10770, Name: "TV Movie"},
		{ID: 53, Name: "Thriller"},
		{ID: 10752, Name: "War"},
		{ID: 37, Name: "Western"},
	} {
		knownGenres[strings.ToLower(g.Name)] = g
	}
	knownGenres["sci-fi"] = knownGenres["science fiction"]
}

// namedGenre resolves a genre given only by name. Unknown names get a stable
// ID above the standard range derived from the lowercased name.
func namedGenre(name string) models.Genre {
	key := strings.ToLower(name)
	if g, ok := knownGenres[key]; ok {
		return g
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return models.Genre{ID: int(h.Sum32()>>2) | 1<<30, Name: name}
}
