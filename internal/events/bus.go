// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package events carries domain events between components over an
// in-process Watermill pub/sub.
//
// The only event today is interaction.tracked, published by the interaction
// tracker and consumed by the recommendation cache invalidator. Delivery is
// asynchronous and at-most-once: events published while nothing is
// subscribed are dropped. The tracker invalidates the user's cache entries
// synchronously before publishing, so the subscriber only repeats that work
// and a lost event never leaves a stale list behind.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// TopicInteractionTracked is published after every successful Track.
const TopicInteractionTracked = "interaction.tracked"

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("event bus closed")

// InteractionEvent is the wire payload of TopicInteractionTracked.
type InteractionEvent struct {
	EventID       string                 `json:"event_id"`
	InteractionID string                 `json:"interaction_id"`
	UserID        string                 `json:"user_id"`
	MovieID       *int                   `json:"movie_id,omitempty"`
	Type          models.InteractionType `json:"type"`
	Timestamp     time.Time              `json:"timestamp"`
}

// Invalidator drops cached results derived from a user's interactions.
type Invalidator interface {
	InvalidateUser(userID string) int
}

// Config controls the bus.
type Config struct {
	// BufferSize is the per-subscriber channel buffer.
	BufferSize int64

	// CloseTimeout bounds how long Close waits for in-flight handlers.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:           256,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
	}
}

// Bus owns the pub/sub and the router that dispatches to handlers.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus. Handlers must be registered before Run.
func NewBus(cfg Config, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultConfig().CloseTimeout
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Recoverer outermost so a panicking handler is retried like any error.
	router.AddMiddleware(middleware.Recoverer)
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			Multiplier:      2.0,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, logger)

	return &Bus{pubsub: pubsub, router: router, logger: logger}, nil
}

// InteractionTracked publishes an interaction event. It satisfies
// interactions.Notifier.
func (b *Bus) InteractionTracked(_ context.Context, in models.Interaction) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	event := InteractionEvent{
		EventID:       uuid.NewString(),
		InteractionID: in.ID,
		UserID:        in.UserID,
		MovieID:       in.MovieID,
		Type:          in.Type,
		Timestamp:     in.Timestamp,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal interaction event: %w", err)
	}

	msg := message.NewMessage(event.EventID, payload)
	msg.Metadata.Set("user_id", in.UserID)
	if err := b.pubsub.Publish(TopicInteractionTracked, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicInteractionTracked, err)
	}
	metrics.EventsPublished.WithLabelValues(TopicInteractionTracked).Inc()
	return nil
}

// SubscribeInvalidation routes interaction events to inv.
func (b *Bus) SubscribeInvalidation(inv Invalidator) {
	h := &invalidationHandler{invalidator: inv, logger: b.logger}
	b.router.AddConsumerHandler(
		"recommendation-cache-invalidator",
		TopicInteractionTracked,
		b.pubsub,
		h.Handle,
	)
}

// Run starts dispatching and blocks until ctx is cancelled or Close is called.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// Close stops the router and the pub/sub.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	routerErr := b.router.Close()
	pubsubErr := b.pubsub.Close()
	return errors.Join(routerErr, pubsubErr)
}

type invalidationHandler struct {
	invalidator Invalidator
	logger      watermill.LoggerAdapter
}

// Handle decodes the event and invalidates the user's cached results.
// Malformed payloads are acknowledged and dropped; retrying cannot fix them.
func (h *invalidationHandler) Handle(msg *message.Message) error {
	var event InteractionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		metrics.EventsHandled.WithLabelValues(TopicInteractionTracked, "malformed").Inc()
		h.logger.Error("Dropping malformed interaction event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}
	if event.UserID == "" {
		metrics.EventsHandled.WithLabelValues(TopicInteractionTracked, "malformed").Inc()
		return nil
	}

	removed := h.invalidator.InvalidateUser(event.UserID)
	metrics.EventsHandled.WithLabelValues(TopicInteractionTracked, "ok").Inc()
	h.logger.Debug("Invalidated recommendation cache", watermill.LogFields{
		"user_id": event.UserID,
		"removed": removed,
	})
	return nil
}
