// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package interactions

import (
	"context"
	"sync"

	"github.com/tomtom215/marquee/internal/models"
)

// MemoryStore keeps the log in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	log        []models.Interaction
	maxEntries int
}

// NewMemoryStore creates an empty store. maxEntries <= 0 uses DefaultMaxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{maxEntries: maxEntries}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, in models.Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = appendCapped(s.log, in, s.maxEntries)
	return nil
}

// List implements Store. The returned slice is a copy.
func (s *MemoryStore) List(ctx context.Context) ([]models.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Interaction, len(s.log))
	copy(out, s.log)
	return out, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
	return nil
}
