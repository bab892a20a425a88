// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// SlogHandler is a slog.Handler that writes through zerolog. The supervisor
// tree hands it to sutureslog so restart events land in the same log stream.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler wraps the given zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandler(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled reports whether records at level would be written.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := toZerologLevel(level)
	return zl >= h.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(toZerologLevel(record.Level))
	prefix := strings.Join(h.groups, ".")

	for _, attr := range h.attrs {
		event = appendAttr(event, prefix, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		event = appendAttr(event, prefix, attr)
		return true
	})

	event.Msg(record.Message)
	return nil
}

// WithAttrs returns a handler carrying attrs on every record.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &SlogHandler{logger: h.logger, attrs: merged, groups: h.groups}
}

// WithGroup returns a handler that prefixes keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &SlogHandler{logger: h.logger, attrs: h.attrs, groups: groups}
}

func appendAttr(event *zerolog.Event, prefix string, attr slog.Attr) *zerolog.Event {
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return event.Str(key, value.String())
	case slog.KindInt64:
		return event.Int64(key, value.Int64())
	case slog.KindUint64:
		return event.Uint64(key, value.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, value.Float64())
	case slog.KindBool:
		return event.Bool(key, value.Bool())
	case slog.KindDuration:
		return event.Dur(key, value.Duration())
	case slog.KindTime:
		return event.Time(key, value.Time())
	case slog.KindGroup:
		for _, ga := range value.Group() {
			event = appendAttr(event, key, ga)
		}
		return event
	default:
		return event.Interface(key, value.Any())
	}
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger returns a *slog.Logger backed by the global zerolog logger.
//
//	tree := supervisor.NewTree(logging.NewSlogLogger(), cfg)
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler(Logger()))
}
