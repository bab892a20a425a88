// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/marquee/internal/sentiment"
)

// predictionHandler adapts a per-movie prediction to a handler.
func predictionHandler[T any](predict func(context.Context, int) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieIDParam(r)
		if err != nil {
			respond(w, r).BadRequest(err.Error())
			return
		}
		out, err := predict(r.Context(), id)
		if err != nil {
			respond(w, r).Err(err)
			return
		}
		respond(w, r).OK(out)
	}
}

// Popularity handles GET /api/v1/movies/{movieID}/popularity.
func (h *Handler) Popularity(w http.ResponseWriter, r *http.Request) {
	predictionHandler(h.svc.Predictor.Popularity)(w, r)
}

// BoxOffice handles GET /api/v1/movies/{movieID}/box-office.
func (h *Handler) BoxOffice(w http.ResponseWriter, r *http.Request) {
	predictionHandler(h.svc.Predictor.BoxOffice)(w, r)
}

// Demographics handles GET /api/v1/movies/{movieID}/demographics.
func (h *Handler) Demographics(w http.ResponseWriter, r *http.Request) {
	predictionHandler(h.svc.Predictor.Demographics)(w, r)
}

// Insights handles POST /api/v1/movies/{movieID}/insights. The body is
// optional; when it carries reviews they are summarized too.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDParam(r)
	if err != nil {
		respond(w, r).BadRequest(err.Error())
		return
	}
	var req InsightsRequest
	if err := decode(r, &req, true); err != nil {
		h.badInput(w, r, err)
		return
	}

	out, err := h.svc.Predictor.Insights(r.Context(), id, req.Reviews)
	if err != nil {
		respond(w, r).Err(err)
		return
	}
	respond(w, r).OK(out)
}

// AnalyzeSentiment handles POST /api/v1/sentiment.
func (h *Handler) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req SentimentRequest
	if err := decode(r, &req, false); err != nil {
		h.badInput(w, r, err)
		return
	}
	if req.Aspects {
		respond(w, r).OK(h.svc.Analyzer.AnalyzeWithAspects(req.Text))
		return
	}
	respond(w, r).OK(h.svc.Analyzer.Analyze(req.Text))
}

// AggregateSentiment handles POST /api/v1/sentiment/aggregate.
func (h *Handler) AggregateSentiment(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := decode(r, &req, false); err != nil {
		h.badInput(w, r, err)
		return
	}
	respond(w, r).OK(sentiment.Aggregate(h.svc.Analyzer, req.Reviews, h.config.MaxKeyPhrases))
}
