// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// requestIDHeader is honored on input and echoed on output.
const requestIDHeader = "X-Request-ID"

// RequestIDWithLogging stores the request ID (from the header, or a new
// UUID) and a fresh correlation ID in the request context, and echoes the
// request ID back to the client.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Metrics records request count and latency per route pattern. Unmatched
// paths share one label.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.RecordAPIRequest(r.Method, route, status, time.Since(start))
		})
	}
}

// AccessLog writes one debug line per request.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logging.Ctx(r.Context()).Debug().
				Str("component", "api").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	})
}

// rateLimit limits requests per client IP. The limit response uses the API
// envelope.
func rateLimit(cfg Config) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled || cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respond(w, r).Fail(http.StatusTooManyRequests, ErrCodeTooManyRequests, "rate limit exceeded", nil)
		}),
	)
}
