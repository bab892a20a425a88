// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package config loads Marquee configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence (lowest first).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Storage   StorageConfig   `koanf:"storage"`
	Recommend RecommendConfig `koanf:"recommend"`
	Predict   PredictConfig   `koanf:"predict"`
	Sentiment SentimentConfig `koanf:"sentiment"`
	Schedule  ScheduleConfig  `koanf:"schedule"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CatalogConfig selects and tunes the movie catalog source. When BaseURL is
// set the REST client is used; otherwise movies are loaded from File.
type CatalogConfig struct {
	BaseURL    string        `koanf:"base_url"`
	File       string        `koanf:"file"`
	Timeout    time.Duration `koanf:"timeout"`
	RateLimit  float64       `koanf:"rate_limit"` // requests per second, 0 = unlimited
	Burst      int           `koanf:"burst"`
	MaxRetries int           `koanf:"max_retries"`
}

// StorageConfig selects the interaction store backend.
type StorageConfig struct {
	Backend         string `koanf:"backend"` // memory or badger
	Path            string `koanf:"path"`
	MaxInteractions int    `koanf:"max_interactions"`
}

// RecommendConfig tunes the recommender.
type RecommendConfig struct {
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	DefaultLimit    int           `koanf:"default_limit"`
	MaxLimit        int           `koanf:"max_limit"`
	JanitorInterval time.Duration `koanf:"janitor_interval"`
}

// PredictConfig seeds the prediction random source. Seed 0 seeds from the clock.
type PredictConfig struct {
	Seed int64 `koanf:"seed"`
}

// SentimentConfig tunes review analysis.
type SentimentConfig struct {
	MaxKeyPhrases int `koanf:"max_key_phrases"`
}

// ScheduleConfig tunes the schedule optimizer.
type ScheduleConfig struct {
	BaseTicketPrice float64 `koanf:"base_ticket_price"`
	// Halls replaces the built-in theater layout when set (YAML only).
	Halls []HallConfig `koanf:"halls"`
}

// HallConfig is one screening room.
type HallConfig struct {
	Name     string `koanf:"name"`
	Capacity int    `koanf:"capacity"`
	Premium  bool   `koanf:"premium"`
}

// EventsConfig tunes the in-process event bus.
type EventsConfig struct {
	BufferSize int64 `koanf:"buffer_size"`
}

// LoggingConfig mirrors logging.Config for the loader.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
