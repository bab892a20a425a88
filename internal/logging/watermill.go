// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// WatermillLogger adapts zerolog to watermill.LoggerAdapter.
type WatermillLogger struct {
	logger zerolog.Logger
}

// NewWatermillLogger returns an adapter over the global logger tagged with
// component=events.
func NewWatermillLogger() *WatermillLogger {
	return &WatermillLogger{logger: WithComponent("events")}
}

// NewWatermillLoggerWith wraps a specific zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWatermillLoggerWith(logger zerolog.Logger) *WatermillLogger {
	return &WatermillLogger{logger: logger}
}

func (w *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	w.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (w *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{logger: w.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}
