// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/interactions"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/validation"
)

// Response is the envelope for every API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
	Meta    Meta   `json:"meta"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// responder writes envelopes for one request.
type responder struct {
	w http.ResponseWriter
	r *http.Request
}

func respond(w http.ResponseWriter, r *http.Request) responder {
	return responder{w: w, r: r}
}

func (rw responder) meta() Meta {
	return Meta{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(rw.r.Context()),
	}
}

// OK writes a 200 response.
func (rw responder) OK(data any) {
	rw.write(http.StatusOK, Response{Success: true, Data: data, Meta: rw.meta()})
}

// Created writes a 201 response.
func (rw responder) Created(data any) {
	rw.write(http.StatusCreated, Response{Success: true, Data: data, Meta: rw.meta()})
}

// Fail writes an error envelope.
func (rw responder) Fail(status int, code, message string, details any) {
	rw.write(status, Response{
		Error: &Error{Code: code, Message: message, Details: details},
		Meta:  rw.meta(),
	})
}

// BadRequest writes a 400 response.
func (rw responder) BadRequest(message string) {
	rw.Fail(http.StatusBadRequest, ErrCodeBadRequest, message, nil)
}

// Err maps err to a status code and writes it. Unknown errors are logged and
// reported without detail.
func (rw responder) Err(err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		rw.Fail(http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), verr.Fields())
	case errors.Is(err, interactions.ErrInvalidInteraction):
		rw.Fail(http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
	case errors.Is(err, catalog.ErrNotFound):
		rw.Fail(http.StatusNotFound, ErrCodeNotFound, "movie not found", nil)
	case errors.Is(err, catalog.ErrCircuitOpen):
		rw.Fail(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "movie catalog is temporarily unavailable", nil)
	case errors.Is(err, context.DeadlineExceeded):
		rw.Fail(http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out", nil)
	default:
		logging.Ctx(rw.r.Context()).Error().Err(err).
			Str("component", "api").
			Str("path", rw.r.URL.Path).
			Msg("Request failed")
		rw.Fail(http.StatusInternalServerError, ErrCodeInternalError, "internal error", nil)
	}
}

func (rw responder) write(status int, body Response) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode response")
		http.Error(rw.w, `{"success":false}`, http.StatusInternalServerError)
		return
	}
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if _, err := rw.w.Write(data); err != nil {
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Failed to write response")
	}
}
