// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/marquee/internal/models"
)

// Collaborative returns up to limit movies the user has not interacted with,
// ranked by the user's genre weights and scaled by rating/5.
func (r *Recommender) Collaborative(ctx context.Context, userID string, limit int) []models.Movie {
	limit = r.limit(limit)
	return r.cached(ctx, KindCollaborative, userID, userKey(userID, KindCollaborative, limit), func() ([]models.Movie, error) {
		return r.collaborative(ctx, userID, limit)
	})
}

func (r *Recommender) collaborative(ctx context.Context, userID string, limit int) ([]models.Movie, error) {
	profile, err := r.genreProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.weights) == 0 {
		return []models.Movie{}, nil
	}

	log, err := r.userLog(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(log))
	for i := range log {
		if log[i].MovieID != nil {
			seen[*log[i].MovieID] = struct{}{}
		}
	}

	movies, err := r.catalog.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	items := make([]scored, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		items = append(items, scored{movie: m, score: collaborativeScore(profile.weights, m)})
	}
	return rank(items, limit), nil
}

// collaborativeScore sums the weights of m's genres and scales by rating/5
// when the movie is rated.
func collaborativeScore(weights GenreWeights, m models.Movie) float64 {
	var score float64
	for _, g := range m.Genres {
		score += weights[g.ID]
	}
	if m.HasRating() {
		score *= m.Rating / 5
	}
	return score
}
