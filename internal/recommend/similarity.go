// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/marquee/internal/models"
)

// Similarity term weights.
const (
	genreWeight    = 3.0
	directorWeight = 2.0
	castWeight     = 2.0
	ratingWeight   = 1.0
	yearWeight     = 0.5
	maxYearGap     = 5
)

// Similarity scores how alike candidate is to reference. The score is
// additive and unbounded; identical genres, director, rating and year give
// 6.5 plus up to 2 for cast overlap.
func Similarity(reference, candidate models.Movie) float64 {
	var score float64

	if len(reference.Genres) > 0 {
		candGenres := make(map[int]struct{}, len(candidate.Genres))
		for _, g := range candidate.Genres {
			candGenres[g.ID] = struct{}{}
		}
		shared := 0
		for _, g := range reference.Genres {
			if _, ok := candGenres[g.ID]; ok {
				shared++
			}
		}
		score += float64(shared) / float64(len(reference.Genres)) * genreWeight
	}

	if reference.Director != "" && reference.Director == candidate.Director {
		score += directorWeight
	}

	if len(reference.Cast) > 0 {
		candCast := make(map[string]struct{}, len(candidate.Cast))
		for _, c := range candidate.Cast {
			candCast[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
		}
		shared := 0
		for _, c := range reference.Cast {
			if _, ok := candCast[strings.ToLower(strings.TrimSpace(c))]; ok {
				shared++
			}
		}
		score += float64(shared) / float64(len(reference.Cast)) * castWeight
	}

	// Missing ratings count as 0.
	score += (1 - math.Abs(reference.Rating-candidate.Rating)/10) * ratingWeight

	refDate, refOK := reference.Released()
	candDate, candOK := candidate.Released()
	if refOK && candOK {
		gap := refDate.Year() - candDate.Year()
		if gap < 0 {
			gap = -gap
		}
		if gap <= maxYearGap {
			score += (1 - float64(gap)/maxYearGap) * yearWeight
		}
	}

	return score
}

// ContentBased returns up to limit movies most similar to movieID, excluding
// movieID itself. Results are cached per movie.
func (r *Recommender) ContentBased(ctx context.Context, movieID, limit int) []models.Movie {
	limit = r.limit(limit)
	return r.cached(ctx, KindContent, "", movieKey(movieID, KindContent, limit), func() ([]models.Movie, error) {
		return r.contentBased(ctx, movieID, limit)
	})
}

func (r *Recommender) contentBased(ctx context.Context, movieID, limit int) ([]models.Movie, error) {
	reference, err := r.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("fetch reference movie: %w", err)
	}
	movies, err := r.catalog.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	items := make([]scored, 0, len(movies))
	for _, m := range movies {
		if m.ID == reference.ID {
			continue
		}
		items = append(items, scored{movie: m, score: Similarity(reference, m)})
	}
	return rank(items, limit), nil
}
