// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package logging provides the process-wide zerolog logger for Marquee.
//
// Every component derives a child logger with a "component" field:
//
//	log := logging.WithComponent("recommend")
//	log.Info().Str("user_id", id).Msg("Computed hybrid recommendations")
//
// Request-scoped logging picks up request and correlation IDs from the context:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("Catalog fetch failed")
//
// Libraries that want a *slog.Logger (sutureslog) or a watermill.LoggerAdapter
// get adapters that write through the same zerolog backend.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic, disabled.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Timestamp adds a time field to every entry.
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Caller:    false,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	initLogger(DefaultConfig())
}

// Init reconfigures the global logger. Safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger must be called with mu held.
func initLogger(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	l := zerolog.New(output)
	if cfg.Timestamp {
		l = l.With().Timestamp().Logger()
	}
	if cfg.Caller {
		l = l.With().Caller().Logger()
	}
	log = l
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether level names a known zerolog level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "off":
		return true
	}
	return false
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLogger replaces the global logger. Tests use it to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// With creates a child logger context on the global logger.
func With() zerolog.Context {
	mu.RLock()
	defer mu.RUnlock()
	return log.With()
}

// WithComponent creates a child logger tagged with a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

// Debug starts a debug level message.
func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Debug()
}

// Info starts an info level message.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

// Warn starts a warn level message.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}

// Error starts an error level message.
func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Error()
}

// Fatal logs and then calls os.Exit(1).
func Fatal() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Fatal()
}

// Err starts an error level message carrying err.
func Err(err error) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Err(err)
}

// NewTestLogger returns a JSON logger writing to w.
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
