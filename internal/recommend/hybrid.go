// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

const (
	contentBoost     = 1.2
	timeOfDayBonus   = 0.2
	weekendBonus     = 0.1
	longFeatureAfter = 120 // minutes
)

var (
	eveningGenres = []string{"Horror", "Thriller", "Action"}
	dayGenres     = []string{"Family", "Comedy", "Documentary", "Animation"}
)

// Hybrid blends collaborative and content-based candidates, applies
// contextual adjustments and returns up to limit movies. A user with no
// movie interactions, or whose history yields no candidates, gets the
// Trending list. Either way the result is cached under the user's key, so
// tracking a new interaction replaces it.
func (r *Recommender) Hybrid(ctx context.Context, userID string, limit int) []models.Movie {
	limit = r.limit(limit)
	return r.cached(ctx, KindHybrid, userID, userKey(userID, KindHybrid, limit), func() ([]models.Movie, error) {
		log, err := r.userLog(ctx, userID)
		if err != nil {
			return nil, err
		}
		seed, ok := latestMovie(log)
		if !ok {
			return r.trending(ctx, limit)
		}
		return r.hybrid(ctx, userID, seed, limit)
	})
}

func (r *Recommender) hybrid(ctx context.Context, userID string, seed, limit int) ([]models.Movie, error) {
	pool := 2 * limit

	collab, err := r.collaborative(ctx, userID, pool)
	if err != nil {
		return nil, err
	}
	content, err := r.contentBased(ctx, seed, pool)
	if err != nil {
		return nil, err
	}

	scores := map[int]float64{}
	var order []models.Movie
	add := func(list []models.Movie, weight float64) {
		for pos, m := range list {
			if _, ok := scores[m.ID]; !ok {
				order = append(order, m)
			}
			scores[m.ID] += rankContribution(pos, len(list)) * weight
		}
	}
	add(collab, 1)
	add(content, contentBoost)
	if len(order) == 0 {
		return r.trending(ctx, limit)
	}

	now := r.now()
	items := make([]scored, 0, len(order))
	for _, m := range order {
		items = append(items, scored{movie: m, score: scores[m.ID] + contextBonus(m, now)})
	}
	return rank(items, limit), nil
}

// rankContribution maps a 0-based rank to 1 - rank/(2n), so the head of a
// list scores 1 and the tail just over 0.5.
func rankContribution(rank, n int) float64 {
	return 1 - float64(rank)/float64(2*n)
}

// contextBonus favors evening genres at night, day genres during the day
// and long features on weekends.
func contextBonus(m models.Movie, now time.Time) float64 {
	var bonus float64
	hour := now.Hour()
	if (hour >= 18 || hour < 6) && m.HasGenre(eveningGenres...) {
		bonus += timeOfDayBonus
	}
	if hour >= 6 && hour < 18 && m.HasGenre(dayGenres...) {
		bonus += timeOfDayBonus
	}
	if wd := now.Weekday(); (wd == time.Saturday || wd == time.Sunday) && m.Duration > longFeatureAfter {
		bonus += weekendBonus
	}
	return bonus
}

// latestMovie returns the movie of the most recently appended interaction
// that references one.
func latestMovie(log []models.Interaction) (int, bool) {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].MovieID != nil {
			return *log[i].MovieID, true
		}
	}
	return 0, false
}
