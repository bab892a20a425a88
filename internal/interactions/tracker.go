// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Notifier is told about every interaction that reached the store. The event
// bus implements it to drive recommendation cache invalidation.
type Notifier interface {
	InteractionTracked(ctx context.Context, in models.Interaction) error
}

// Invalidator drops derived state for a user. It runs inside Track, so a
// read issued after Track returns never sees data computed before the write.
type Invalidator interface {
	InvalidateUser(userID string) int
}

// Tracker is the write path into the interaction log.
type Tracker struct {
	store       Store
	notifier    Notifier
	invalidator Invalidator
	now      func() time.Time
	logger   zerolog.Logger
}

// NewTracker creates a tracker. notifier may be nil.
func NewTracker(store Store, notifier Notifier) *Tracker {
	return &Tracker{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   logging.WithComponent("interactions"),
	}
}

// WithClock overrides the timestamp source.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// WithInvalidator registers inv to be called synchronously after every
// successful append.
func (t *Tracker) WithInvalidator(inv Invalidator) *Tracker {
	t.invalidator = inv
	return t
}

// Track stamps, validates and appends an interaction, invalidates the user's
// derived state, then notifies subscribers. A notification failure is logged
// and does not fail the call: the interaction is already durable.
func (t *Tracker) Track(ctx context.Context, in models.Interaction) (models.Interaction, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = t.now().UTC()
	}
	if err := Validate(&in); err != nil {
		return models.Interaction{}, err
	}

	if err := t.store.Append(ctx, in); err != nil {
		metrics.InteractionStoreErrors.WithLabelValues("append").Inc()
		return models.Interaction{}, fmt.Errorf("track interaction: %w", err)
	}
	metrics.InteractionsTracked.WithLabelValues(string(in.Type)).Inc()

	if t.invalidator != nil {
		t.invalidator.InvalidateUser(in.UserID)
	}
	if t.notifier != nil {
		if err := t.notifier.InteractionTracked(ctx, in); err != nil {
			t.logger.Warn().Err(err).
				Str("user_id", in.UserID).
				Str("interaction_id", in.ID).
				Msg("Failed to publish interaction event")
		}
	}
	return in, nil
}

// List returns the log, optionally filtered to one user.
func (t *Tracker) List(ctx context.Context, userID string) ([]models.Interaction, error) {
	log, err := t.store.List(ctx)
	if err != nil {
		metrics.InteractionStoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	if userID == "" {
		return log, nil
	}
	return ForUser(log, userID), nil
}

// Clear empties the log.
func (t *Tracker) Clear(ctx context.Context) error {
	if err := t.store.Clear(ctx); err != nil {
		metrics.InteractionStoreErrors.WithLabelValues("clear").Inc()
		return err
	}
	t.logger.Info().Msg("Interaction log cleared")
	return nil
}
