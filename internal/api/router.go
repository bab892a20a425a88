// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package api serves Marquee over HTTP.
//
// Routes are mounted on a chi router with request IDs, panic recovery,
// CORS, per-IP rate limiting and Prometheus metrics. Every response uses the
// Response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marquee/internal/interactions"
	"github.com/tomtom215/marquee/internal/predict"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/schedule"
	"github.com/tomtom215/marquee/internal/sentiment"
)

// Config tunes the HTTP layer.
type Config struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RequestTimeout    time.Duration

	// MaxLimit caps the limit query parameter.
	MaxLimit int
	// MaxKeyPhrases bounds key phrases in sentiment responses.
	MaxKeyPhrases int
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
		MaxLimit:          50,
		MaxKeyPhrases:     sentiment.DefaultMaxKeyPhrases,
	}
}

// Services are the components the handlers call.
type Services struct {
	Tracker     *interactions.Tracker
	Recommender *recommend.Recommender
	Predictor   *predict.Predictor
	Analyzer    sentiment.Analyzer
	Optimizer   *schedule.Optimizer
}

// Handler holds the route handlers.
type Handler struct {
	svc    Services
	config Config
	now    func() time.Time
}

// NewHandler creates the handlers.
func NewHandler(svc Services, cfg Config) *Handler {
	def := DefaultConfig()
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.MaxKeyPhrases <= 0 {
		cfg.MaxKeyPhrases = def.MaxKeyPhrases
	}
	return &Handler{svc: svc, config: cfg, now: time.Now}
}

// Router builds the chi router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(h.config.CORSOrigins))
	r.Use(Metrics())
	r.Use(AccessLog())

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(h.config))
		if h.config.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(h.config.RequestTimeout))
		}

		r.Post("/interactions", h.TrackInteraction)
		r.Get("/interactions", h.ListInteractions)
		r.Delete("/interactions", h.ClearInteractions)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", h.GenrePreferences)
			r.Get("/recommendations", h.Recommendations)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/trending", h.Trending)
			r.Route("/{movieID}", func(r chi.Router) {
				r.Get("/similar", h.SimilarMovies)
				r.Get("/popularity", h.Popularity)
				r.Get("/box-office", h.BoxOffice)
				r.Get("/demographics", h.Demographics)
				r.Post("/insights", h.Insights)
			})
		})

		r.Post("/sentiment", h.AnalyzeSentiment)
		r.Post("/sentiment/aggregate", h.AggregateSentiment)

		r.Get("/theaters/{theaterID}/schedule", h.Schedule)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r).Fail(http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond(w, r).Fail(http.StatusMethodNotAllowed, ErrCodeBadRequest, "method not allowed", nil)
	})

	return r
}
