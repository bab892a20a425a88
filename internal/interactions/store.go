// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package interactions persists the user interaction log.
//
// The log is a bounded, append-only list: every write reads the whole log,
// appends, keeps only the most recent MaxEntries, and writes the whole log
// back. Entries never expire on their own; Clear is the only way to remove them.
package interactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/marquee/internal/models"
)

// DefaultMaxEntries is the log capacity.
const DefaultMaxEntries = 100

// ErrInvalidInteraction is returned when an interaction fails validation.
var ErrInvalidInteraction = errors.New("invalid interaction")

// Store is the interaction log repository.
type Store interface {
	// Append adds one interaction and truncates the log to its capacity.
	Append(ctx context.Context, in models.Interaction) error
	// List returns the whole log, oldest first.
	List(ctx context.Context) ([]models.Interaction, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// Validate checks the fields every stored interaction must carry.
func Validate(in *models.Interaction) error {
	if in.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInteraction)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInteraction, in.Type)
	}
	if in.Type != models.InteractionSearch && in.MovieID == nil {
		return fmt.Errorf("%w: movie_id is required for %s", ErrInvalidInteraction, in.Type)
	}
	return nil
}

// ForUser filters log down to one user's entries, preserving order.
func ForUser(log []models.Interaction, userID string) []models.Interaction {
	out := make([]models.Interaction, 0, len(log))
	for i := range log {
		if log[i].UserID == userID {
			out = append(out, log[i])
		}
	}
	return out
}

// appendCapped appends in and keeps the newest max entries.
func appendCapped(log []models.Interaction, in models.Interaction, maxEntries int) []models.Interaction {
	log = append(log, in)
	if over := len(log) - maxEntries; over > 0 {
		trimmed := make([]models.Interaction, maxEntries)
		copy(trimmed, log[over:])
		return trimmed
	}
	return log
}
