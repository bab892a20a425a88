// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// InteractionType is the kind of user action recorded in the interaction log.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionRate     InteractionType = "rate"
	InteractionBookmark InteractionType = "bookmark"
	InteractionSearch   InteractionType = "search"
	InteractionBook     InteractionType = "book"
)

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionLike, InteractionRate,
		InteractionBookmark, InteractionSearch, InteractionBook:
		return true
	}
	return false
}

// Interaction is one entry in the interaction log. MovieID is nil for searches.
// Data is free-form: rating, query, seats, amount.
type Interaction struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	MovieID   *int                   `json:"movie_id"`
	Type      InteractionType        `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Rating returns the numeric "rating" value from Data.
func (i *Interaction) Rating() (float64, bool) {
	if i.Data == nil {
		return 0, false
	}
	switch v := i.Data["rating"].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// IntPtr is a convenience for building interactions with a movie ID.
func IntPtr(v int) *int {
	return &v
}
