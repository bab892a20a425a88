// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/predict"
)

// Trending ranks the whole catalog by release recency plus rating. It is the
// cold-start list for users without interactions.
func (r *Recommender) Trending(ctx context.Context, limit int) []models.Movie {
	limit = r.limit(limit)
	return r.cached(ctx, KindTrending, "", fmt.Sprintf("trending:%d", limit), func() ([]models.Movie, error) {
		return r.trending(ctx, limit)
	})
}

func (r *Recommender) trending(ctx context.Context, limit int) ([]models.Movie, error) {
	movies, err := r.catalog.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	now := r.now()
	items := make([]scored, 0, len(movies))
	for _, m := range movies {
		items = append(items, scored{movie: m, score: trendingScore(m, now)})
	}
	return rank(items, limit), nil
}

func trendingScore(m models.Movie, now time.Time) float64 {
	return predict.BaseScore(m, now) + m.Rating*5
}
