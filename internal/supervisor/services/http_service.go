// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package services adapts Marquee's long-running components to
// suture.Service.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultShutdownTimeout is used when no drain timeout is configured.
const DefaultShutdownTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService runs the API server under supervision. Cancelling the serve
// context drains in-flight requests for up to the shutdown timeout.
type HTTPService struct {
	server  HTTPServer
	timeout time.Duration
}

// NewHTTPService wraps server. A non-positive timeout uses
// DefaultShutdownTimeout.
func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &HTTPService{server: server, timeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// ctx is already cancelled; drain on a fresh one.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-done
	return ctx.Err()
}

func (s *HTTPService) String() string { return "http-server" }
