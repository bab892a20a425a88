// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// EventRouter dispatches events until ctx is cancelled. *events.Bus
// implements it.
type EventRouter interface {
	Run(ctx context.Context) error
}

// BusService runs the in-process event router. A watermill router cannot be
// started twice, so a failed router is not restarted; interactions are still
// stored and cached results still expire by TTL.
type BusService struct {
	router EventRouter
}

// NewBusService wraps router.
func NewBusService(router EventRouter) *BusService {
	return &BusService{router: router}
}

// Serve implements suture.Service.
func (s *BusService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event bus: %w: %w", err, suture.ErrDoNotRestart)
	}
	return suture.ErrDoNotRestart
}

func (s *BusService) String() string { return "event-bus" }
