// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// newBreaker builds the catalog circuit breaker:
//   - 3 probe requests in half-open state
//   - counts reset every minute while closed
//   - 2 minutes open before probing
//   - trips at >= 60% failures over at least 10 requests
//
// Not-found answers and caller cancellations are not upstream failures.
func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
