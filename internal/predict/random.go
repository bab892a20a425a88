// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package predict

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource supplies the cast/director factor in [0, 1).
type RandomSource interface {
	Float64() float64
}

// SeededSource is a mutex-guarded math/rand generator.
type SeededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource creates a source. Seed 0 seeds from the wall clock.
func NewSeededSource(seed int64) *SeededSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SeededSource{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // plausibility noise, not security
	}
}

// Float64 implements RandomSource.
func (s *SeededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// FixedSource always returns the same value. Tests use it to pin predictions.
type FixedSource float64

// Float64 implements RandomSource.
func (f FixedSource) Float64() float64 {
	return float64(f)
}
