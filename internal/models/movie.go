// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package models holds the data types shared across Marquee packages.
package models

import (
	"strings"
	"time"
)

// Movie statuses reported by the catalog.
const (
	StatusNowPlaying = "Now Playing"
	StatusComingSoon = "Coming Soon"
	StatusEnded      = "Ended"
)

// Genre is a catalog genre. Genre IDs are stable across movies.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog record. Marquee never writes movies back.
//
// Rating is on a 0-10 scale; zero means the catalog has no rating.
// ReleaseDate is either YYYY-MM-DD or RFC3339.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Genres      []Genre  `json:"genres"`
	Rating      float64  `json:"rating"`
	Director    string   `json:"director,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Duration    int      `json:"duration"`
	Poster      string   `json:"poster,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// Released parses ReleaseDate. The second return is false when the date is
// missing or unparseable.
func (m *Movie) Released() (time.Time, bool) {
	s := strings.TrimSpace(m.ReleaseDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// HasRating reports whether the catalog supplied a rating.
func (m *Movie) HasRating() bool {
	return m.Rating > 0
}

// HasGenre reports whether the movie is tagged with any of names
// (case-insensitive).
func (m *Movie) HasGenre(names ...string) bool {
	for _, g := range m.Genres {
		for _, n := range names {
			if strings.EqualFold(g.Name, n) {
				return true
			}
		}
	}
	return false
}

// GenreNames returns the genre names in catalog order.
func (m *Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// DaysSinceRelease returns whole days between release and now, negative for
// upcoming movies. ok is false when the release date is unknown.
func (m *Movie) DaysSinceRelease(now time.Time) (days int, ok bool) {
	released, ok := m.Released()
	if !ok {
		return 0, false
	}
	r := time.Date(released.Year(), released.Month(), released.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(n.Sub(r).Hours() / 24), true
}
