// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package predict estimates popularity, box office and audience demographics
// for catalog movies.
//
// Predictions are formulas over fixed tables plus one random term for
// cast and director draw. The random term comes from a RandomSource so
// tests can pin it with FixedSource.
package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/sentiment"
)

// Predictor computes movie predictions. It is safe for concurrent use when
// its RandomSource is.
type Predictor struct {
	catalog       catalog.Provider
	rand          RandomSource
	analyzer      sentiment.Analyzer
	maxKeyPhrases int
	now           func() time.Time
	logger        zerolog.Logger
}

// Option customizes a Predictor.
type Option func(*Predictor)

// WithClock sets the clock used for release recency.
func WithClock(now func() time.Time) Option {
	return func(p *Predictor) {
		p.now = now
	}
}

// WithAnalyzer sets the review analyzer used by Insights.
func WithAnalyzer(a sentiment.Analyzer, maxKeyPhrases int) Option {
	return func(p *Predictor) {
		p.analyzer = a
		p.maxKeyPhrases = maxKeyPhrases
	}
}

// New creates a predictor. A nil rnd uses a time-seeded source.
func New(provider catalog.Provider, rnd RandomSource, opts ...Option) *Predictor {
	if rnd == nil {
		rnd = NewSeededSource(0)
	}
	p := &Predictor{
		catalog: provider,
		rand:    rnd,
		now:     time.Now,
		logger:  logging.WithComponent("predict"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.analyzer == nil {
		p.analyzer = sentiment.NewLexiconAnalyzer(p.maxKeyPhrases)
	}
	return p
}

func (p *Predictor) movie(ctx context.Context, movieID int) (models.Movie, error) {
	m, err := p.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return models.Movie{}, fmt.Errorf("fetch movie %d: %w", movieID, err)
	}
	return m, nil
}
