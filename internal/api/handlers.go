// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/validation"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Recommender.CacheStats()
	respond(w, r).OK(map[string]any{
		"status": "ok",
		"cache": map[string]any{
			"keys":      stats.Keys,
			"hits":      stats.Hits,
			"misses":    stats.Misses,
			"evictions": stats.Evictions,
		},
	})
}

// TrackInteraction handles POST /api/v1/interactions.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := decode(r, &req, false); err != nil {
		h.badInput(w, r, err)
		return
	}

	in := models.Interaction{
		UserID:  req.UserID,
		MovieID: req.MovieID,
		Type:    models.InteractionType(req.Type),
		Data:    req.Data,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}

	tracked, err := h.svc.Tracker.Track(r.Context(), in)
	if err != nil {
		respond(w, r).Err(err)
		return
	}
	respond(w, r).Created(tracked)
}

// ListInteractions handles GET /api/v1/interactions[?user_id=].
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	log, err := h.svc.Tracker.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		respond(w, r).Err(err)
		return
	}
	if log == nil {
		log = []models.Interaction{}
	}
	respond(w, r).OK(map[string]any{
		"interactions": log,
		"count":        len(log),
	})
}

// ClearInteractions handles DELETE /api/v1/interactions. Every cached
// recommendation is dropped with the log.
func (h *Handler) ClearInteractions(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tracker.Clear(r.Context()); err != nil {
		respond(w, r).Err(err)
		return
	}
	h.svc.Recommender.InvalidateAll()
	respond(w, r).OK(map[string]any{"cleared": true})
}

// GenrePreferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) GenrePreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	respond(w, r).OK(h.svc.Recommender.GenrePreferences(r.Context(), userID))
}

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, err := limitParam(r, h.config.MaxLimit)
	if err != nil {
		respond(w, r).BadRequest(err.Error())
		return
	}

	mode := r.URL.Query().Get("mode")
	var movies []models.Movie
	switch mode {
	case "", "hybrid":
		mode = "hybrid"
		movies = h.svc.Recommender.Hybrid(r.Context(), userID, limit)
	case "collaborative":
		movies = h.svc.Recommender.Collaborative(r.Context(), userID, limit)
	default:
		respond(w, r).BadRequest("mode must be hybrid or collaborative")
		return
	}
	respond(w, r).OK(movieList(movies, map[string]any{"user_id": userID, "mode": mode}))
}

// Trending handles GET /api/v1/movies/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, h.config.MaxLimit)
	if err != nil {
		respond(w, r).BadRequest(err.Error())
		return
	}
	respond(w, r).OK(movieList(h.svc.Recommender.Trending(r.Context(), limit), nil))
}

// SimilarMovies handles GET /api/v1/movies/{movieID}/similar.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		respond(w, r).BadRequest(err.Error())
		return
	}
	limit, err := limitParam(r, h.config.MaxLimit)
	if err != nil {
		respond(w, r).BadRequest(err.Error())
		return
	}
	respond(w, r).OK(movieList(h.svc.Recommender.ContentBased(r.Context(), id, limit), map[string]any{"movie_id": id}))
}

func movieList(movies []models.Movie, extra map[string]any) map[string]any {
	out := map[string]any{
		"movies": movies,
		"count":  len(movies),
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Schedule handles GET /api/v1/theaters/{theaterID}/schedule[?date=YYYY-MM-DD].
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	date := h.now().UTC()
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond(w, r).BadRequest("date must be formatted YYYY-MM-DD")
			return
		}
		date = parsed
	}

	plan, err := h.svc.Optimizer.Optimize(r.Context(), chi.URLParam(r, "theaterID"), date)
	if err != nil {
		respond(w, r).Err(err)
		return
	}
	respond(w, r).OK(plan)
}

// badInput writes a 400 for decode and validation failures.
func (h *Handler) badInput(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respond(w, r).Err(err)
		return
	}
	respond(w, r).BadRequest(err.Error())
}
