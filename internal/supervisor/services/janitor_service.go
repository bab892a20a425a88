// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultJanitorInterval is used when no sweep interval is configured.
const DefaultJanitorInterval = 5 * time.Minute

// CacheSweeper drops expired cache entries and reports how many went.
// *recommend.Recommender implements it.
type CacheSweeper interface {
	SweepCache() int
}

// JanitorService sweeps the recommendation cache on a fixed interval so
// entries for users who never come back do not linger until restart.
type JanitorService struct {
	sweeper  CacheSweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewJanitorService creates the service. A non-positive interval uses
// DefaultJanitorInterval.
func NewJanitorService(sweeper CacheSweeper, interval time.Duration, logger zerolog.Logger) *JanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &JanitorService{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
	}
}

// Serve implements suture.Service.
func (s *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.interval).Msg("Cache janitor started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sweeper.SweepCache(); n > 0 {
				s.logger.Debug().Int("evicted", n).Msg("Swept expired recommendations")
			}
		}
	}
}

func (s *JanitorService) String() string { return "cache-janitor" }
