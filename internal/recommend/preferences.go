// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"math"
	"slices"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

// Interaction weights for genre preference accumulation.
const (
	weightView          = 1.0
	weightBook          = 5.0
	weightOther         = 0.5
	defaultRatingWeight = 3.0
)

// GenreShare is one genre's share of a user's preference weight.
type GenreShare struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// GenrePreferences summarizes which genres a user engages with.
type GenrePreferences struct {
	Genres []GenreShare `json:"genres"`
	// TopGenre is nil when the user has no weighted interactions.
	TopGenre       *string `json:"top_genre"`
	DiversityScore float64 `json:"diversity_score"`
}

// GenreWeights maps genre ID to accumulated preference weight.
type GenreWeights map[int]float64

// genreProfile is the accumulation result, with names and first-seen order
// kept so shares sort deterministically.
type genreProfile struct {
	weights GenreWeights
	names   map[int]string
	order   []int
}

// GenrePreferences returns userID's genre shares.
func (r *Recommender) GenrePreferences(ctx context.Context, userID string) GenrePreferences {
	profile, err := r.genreProfile(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("component", "recommend").
			Str("user_id", userID).
			Msg("Genre preferences failed, returning empty result")
		return emptyPreferences()
	}
	return profile.preferences()
}

func emptyPreferences() GenrePreferences {
	return GenrePreferences{Genres: []GenreShare{}}
}

// genreProfile accumulates weights over the user's view, rate and book
// interactions. Movies that cannot be fetched are logged and skipped.
func (r *Recommender) genreProfile(ctx context.Context, userID string) (*genreProfile, error) {
	log, err := r.userLog(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &genreProfile{weights: GenreWeights{}, names: map[int]string{}}
	fetched := map[int]*models.Movie{}

	for i := range log {
		in := &log[i]
		if in.MovieID == nil || !countsTowardPreferences(in.Type) {
			continue
		}

		movie, seen := fetched[*in.MovieID]
		if !seen {
			m, err := r.catalog.GetMovie(ctx, *in.MovieID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logging.Ctx(ctx).Debug().Err(err).
					Str("component", "recommend").
					Int("movie_id", *in.MovieID).
					Msg("Skipping interaction, movie fetch failed")
				fetched[*in.MovieID] = nil
				continue
			}
			movie = &m
			fetched[*in.MovieID] = movie
		}
		if movie == nil {
			continue
		}

		w := interactionWeight(in)
		for _, g := range movie.Genres {
			if _, ok := p.weights[g.ID]; !ok {
				p.order = append(p.order, g.ID)
				p.names[g.ID] = g.Name
			}
			p.weights[g.ID] += w
		}
	}
	return p, nil
}

func countsTowardPreferences(t models.InteractionType) bool {
	return t == models.InteractionView || t == models.InteractionRate || t == models.InteractionBook
}

func interactionWeight(in *models.Interaction) float64 {
	switch in.Type {
	case models.InteractionView:
		return weightView
	case models.InteractionRate:
		if rating, ok := in.Rating(); ok {
			return rating
		}
		return defaultRatingWeight
	case models.InteractionBook:
		return weightBook
	default:
		return weightOther
	}
}

func (p *genreProfile) preferences() GenrePreferences {
	var total float64
	for _, id := range p.order {
		total += p.weights[id]
	}
	if len(p.order) == 0 || total <= 0 {
		return emptyPreferences()
	}

	shares := make([]GenreShare, 0, len(p.order))
	for _, id := range p.order {
		shares = append(shares, GenreShare{
			ID:         id,
			Name:       p.names[id],
			Percentage: p.weights[id] / total * 100,
		})
	}
	slices.SortStableFunc(shares, func(a, b GenreShare) int {
		switch {
		case a.Percentage > b.Percentage:
			return -1
		case a.Percentage < b.Percentage:
			return 1
		default:
			return 0
		}
	})

	top := shares[0].Name
	return GenrePreferences{
		Genres:         shares,
		TopGenre:       &top,
		DiversityScore: diversity(shares),
	}
}

// diversity is the Shannon entropy of the shares divided by ln(n), so 0 is a
// single genre and 1 is an even spread. Fewer than two genres scores 0.
func diversity(shares []GenreShare) float64 {
	n := len(shares)
	if n < 2 {
		return 0
	}
	var h float64
	for _, s := range shares {
		p := s.Percentage / 100
		if p > 0 {
			h -= p * math.Log(p)
		}
	}
	return h / math.Log(float64(n))
}
