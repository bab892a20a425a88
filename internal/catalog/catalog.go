// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package catalog reads movies from the external movie data source.

Marquee never writes to the catalog. Two providers are available:

  - Client: REST client for GET {base}/movies and GET {base}/movies/{id},
    protected by a token-bucket rate limiter, 429 backoff and a circuit breaker
  - Static: fixed in-memory list, optionally loaded from a JSON file

Both return movies in catalog order. Scorers rely on that order to break ties.
*/
package catalog

import (
	"context"
	"errors"

	"github.com/tomtom215/marquee/internal/models"
)

var (
	// ErrNotFound is returned when the catalog has no movie with the given ID.
	ErrNotFound = errors.New("movie not found")

	// ErrCircuitOpen is returned while the circuit breaker rejects requests.
	ErrCircuitOpen = errors.New("movie catalog unavailable: circuit open")
)

// Provider is the read-only movie catalog.
type Provider interface {
	// ListMovies returns every movie in catalog order.
	ListMovies(ctx context.Context) ([]models.Movie, error)
	// GetMovie returns one movie or ErrNotFound.
	GetMovie(ctx context.Context, id int) (models.Movie, error)
}
