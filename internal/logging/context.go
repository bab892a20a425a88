// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
	loggerKey        contextKey = "logger"
)

// GenerateCorrelationID returns a short (8 character) correlation ID.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a full UUID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a context carrying the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID, or "" if absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a context carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the stored logger, falling back to the global one.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with correlation_id and request_id attached when present.
//
//	logging.Ctx(ctx).Info().Msg("Schedule optimized")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := LoggerFromContext(ctx).With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	l := logCtx.Logger()
	return &l
}
