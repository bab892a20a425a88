// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/validation"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// TrackRequest is the body of POST /interactions.
type TrackRequest struct {
	UserID    string         `json:"user_id" validate:"required,max=128"`
	MovieID   *int           `json:"movie_id" validate:"omitempty,gt=0"`
	Type      string         `json:"type" validate:"required,interaction_type"`
	Timestamp *time.Time     `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// InsightsRequest is the optional body of POST /movies/{movieID}/insights.
type InsightsRequest struct {
	Reviews []string `json:"reviews" validate:"max=500,dive,max=10000"`
}

// SentimentRequest is the body of POST /sentiment.
type SentimentRequest struct {
	Text    string `json:"text" validate:"required,max=10000"`
	Aspects bool   `json:"aspects"`
}

// AggregateRequest is the body of POST /sentiment/aggregate.
type AggregateRequest struct {
	Reviews []string `json:"reviews" validate:"max=500,dive,max=10000"`
}

var errEmptyBody = errors.New("request body is empty")

// decode reads a JSON body into v and validates it. An empty body is
// allowed when optional is true.
func decode(r *http.Request, v any, optional bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return fmt.Errorf("request body exceeds %d bytes", maxBodySize)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if !optional {
			return errEmptyBody
		}
	} else if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

// limitParam parses the limit query parameter. Missing means 0 (the
// component default); values above max are capped.
func limitParam(r *http.Request, max int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", s)
	}
	return min(n, max), nil
}

func movieIDParam(r *http.Request) (int, error) {
	s := chi.URLParam(r, "movieID")
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("movie ID must be a positive integer, got %q", s)
	}
	return id, nil
}
