// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/tomtom215/marquee/internal/models"
)

// Static serves a fixed movie list. It is safe for concurrent use because
// the list is never mutated after construction.
type Static struct {
	movies []models.Movie
	byID   map[int]int
}

// NewStatic copies movies into a provider.
func NewStatic(movies []models.Movie) *Static {
	s := &Static{
		movies: make([]models.Movie, len(movies)),
		byID:   make(map[int]int, len(movies)),
	}
	copy(s.movies, movies)
	for i := range s.movies {
		// First occurrence wins on duplicate IDs.
		if _, dup := s.byID[s.movies[i].ID]; !dup {
			s.byID[s.movies[i].ID] = i
		}
	}
	return s
}

// LoadStaticFile reads a JSON movie list (bare array or wrapped under
// "movies", "results" or "data").
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	movies, err := decodeMovies(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog file %s: %w", path, err)
	}
	return NewStatic(movies), nil
}

// ListMovies implements Provider.
func (s *Static) ListMovies(ctx context.Context) ([]models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Movie, len(s.movies))
	copy(out, s.movies)
	return out, nil
}

// GetMovie implements Provider.
func (s *Static) GetMovie(ctx context.Context, id int) (models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return models.Movie{}, err
	}
	i, ok := s.byID[id]
	if !ok {
		return models.Movie{}, fmt.Errorf("get movie %d: %w", id, ErrNotFound)
	}
	return s.movies[i], nil
}

// Len returns the number of movies.
func (s *Static) Len() int {
	return len(s.movies)
}
