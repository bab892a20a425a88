// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package supervisor runs Marquee's long-lived services under a suture tree.
//
// The root supervisor has three children so that a crash loop in one layer
// backs off without taking the others down:
//
//	marquee
//	├── events       (interaction event bus)
//	├── maintenance  (recommendation cache janitor)
//	└── api          (HTTP server)
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behavior. Zero fields take suture's defaults.
type TreeConfig struct {
	// FailureThreshold is how many failures put a supervisor into backoff.
	FailureThreshold float64
	// FailureDecay is the failure counter's decay half-life in seconds.
	FailureDecay float64
	// FailureBackoff is how long a supervisor in backoff waits.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// Tree is the supervisor hierarchy.
type Tree struct {
	root        *suture.Supervisor
	events      *suture.Supervisor
	maintenance *suture.Supervisor
	api         *suture.Supervisor
	config      TreeConfig
}

// NewTree builds the tree. Supervisor events are logged through logger.
func NewTree(logger *slog.Logger, cfg TreeConfig) *Tree {
	cfg = cfg.withDefaults()

	rootSpec := cfg.spec()
	// MustHook has a pointer receiver.
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &Tree{
		root:        suture.New("marquee", rootSpec),
		events:      suture.New("events", cfg.spec()),
		maintenance: suture.New("maintenance", cfg.spec()),
		api:         suture.New("api", cfg.spec()),
		config:      cfg,
	}
	t.root.Add(t.events)
	t.root.Add(t.maintenance)
	t.root.Add(t.api)
	return t
}

// AddEventService adds a service to the events layer.
func (t *Tree) AddEventService(svc suture.Service) suture.ServiceToken {
	return t.events.Add(svc)
}

// AddMaintenanceService adds a service to the maintenance layer.
func (t *Tree) AddMaintenanceService(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// AddAPIService adds a service to the api layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is cancelled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The channel receives Serve's
// result.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that ignored the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
