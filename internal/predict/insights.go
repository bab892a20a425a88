// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package predict

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/sentiment"
)

// Insight branch names, used as Insights.Errors keys and metric labels.
const (
	BranchPopularity   = "popularity"
	BranchBoxOffice    = "box_office"
	BranchDemographics = "demographics"
	BranchSentiment    = "sentiment"
)

// Insights combines every prediction for one movie.
type Insights struct {
	MovieID      int                `json:"movie_id"`
	Popularity   Popularity         `json:"popularity"`
	BoxOffice    BoxOffice          `json:"box_office"`
	Demographics Demographics       `json:"demographics"`
	Reviews      *sentiment.Summary `json:"reviews,omitempty"`

	// Errors names the branches that failed. Their fields hold defaults.
	Errors map[string]string `json:"errors,omitempty"`
}

// Insights runs popularity, box office, demographics and (when reviews are
// given) review sentiment concurrently. A branch that fails on its own leaves
// its default in place, is reported in Errors and does not stop the others.
// If ctx ends while branches are running the whole call is abandoned and the
// context error returned. Otherwise the returned error is non-nil only when
// every catalog-backed branch failed.
func (p *Predictor) Insights(ctx context.Context, movieID int, reviews []string) (Insights, error) {
	var (
		popularity   Popularity
		boxOffice    BoxOffice
		demographics Demographics
		summary      sentiment.Summary

		popularityErr   error
		boxOfficeErr    error
		demographicsErr error
	)

	// Branch failures are recorded, not returned, so only cancellation
	// stops the group.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		popularity, popularityErr = p.Popularity(gctx, movieID)
		return abandoned(gctx, popularityErr)
	})
	g.Go(func() error {
		boxOffice, boxOfficeErr = p.BoxOffice(gctx, movieID)
		return abandoned(gctx, boxOfficeErr)
	})
	g.Go(func() error {
		demographics, demographicsErr = p.Demographics(gctx, movieID)
		return abandoned(gctx, demographicsErr)
	})
	if len(reviews) > 0 {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summary = sentiment.Aggregate(p.analyzer, reviews, p.maxKeyPhrases)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Insights{MovieID: movieID}, fmt.Errorf("insights for movie %d: %w", movieID, err)
	}

	out := Insights{
		MovieID:      movieID,
		Popularity:   popularity,
		BoxOffice:    boxOffice,
		Demographics: demographics,
	}
	if len(reviews) > 0 {
		out.Reviews = &summary
	}

	failed := map[string]error{}
	if popularityErr != nil {
		failed[BranchPopularity] = popularityErr
		out.Popularity = Popularity{MovieID: movieID, Trend: TrendStable, Text: "Popularity prediction unavailable."}
	}
	if boxOfficeErr != nil {
		failed[BranchBoxOffice] = boxOfficeErr
		out.BoxOffice = BoxOffice{MovieID: movieID, Text: "Box office prediction unavailable."}
	}
	if demographicsErr != nil {
		failed[BranchDemographics] = demographicsErr
		out.Demographics = baselineDemographics(movieID)
	}

	if len(failed) > 0 {
		out.Errors = make(map[string]string, len(failed))
		for branch, err := range failed {
			out.Errors[branch] = err.Error()
			metrics.PredictionBranchFailures.WithLabelValues(branch).Inc()
			logging.Ctx(ctx).Warn().Err(err).
				Str("component", "predict").
				Str("branch", branch).
				Int("movie_id", movieID).
				Msg("Insight branch failed, using default")
		}
	}
	metrics.PredictionsTotal.WithLabelValues("insights").Inc()

	if len(failed) == 3 {
		return out, fmt.Errorf("all insight branches failed: %w", popularityErr)
	}
	return out, nil
}

// abandoned reports ctx's error when a branch failed because ctx ended.
func abandoned(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
