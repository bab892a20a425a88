// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"net/url"

	"github.com/tomtom215/marquee/internal/logging"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if c.Sentiment.MaxKeyPhrases < 1 {
		return fmt.Errorf("sentiment.max_key_phrases must be at least 1, got %d", c.Sentiment.MaxKeyPhrases)
	}
	if c.Schedule.BaseTicketPrice <= 0 {
		return fmt.Errorf("schedule.base_ticket_price must be positive, got %.2f", c.Schedule.BaseTicketPrice)
	}
	for i, h := range c.Schedule.Halls {
		if h.Name == "" || h.Capacity < 1 {
			return fmt.Errorf("schedule.halls[%d] needs a name and a positive capacity, got %q/%d", i, h.Name, h.Capacity)
		}
	}
	if c.Events.BufferSize < 0 {
		return fmt.Errorf("events.buffer_size must be non-negative, got %d", c.Events.BufferSize)
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitRequests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Server.RateLimitRequests)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BaseURL != "" {
		if err := validateHTTPURL(c.Catalog.BaseURL, "CATALOG_BASE_URL"); err != nil {
			return err
		}
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %v", c.Catalog.Timeout)
	}
	if c.Catalog.RateLimit < 0 {
		return fmt.Errorf("CATALOG_RATE_LIMIT must be non-negative, got %v", c.Catalog.RateLimit)
	}
	if c.Catalog.RateLimit > 0 && c.Catalog.Burst < 1 {
		return fmt.Errorf("CATALOG_BURST must be at least 1 when rate limiting, got %d", c.Catalog.Burst)
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("CATALOG_MAX_RETRIES must be non-negative, got %d", c.Catalog.MaxRetries)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "memory":
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=badger")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory or badger, got %q", c.Storage.Backend)
	}
	if c.Storage.MaxInteractions < 1 {
		return fmt.Errorf("STORAGE_MAX_INTERACTIONS must be at least 1, got %d", c.Storage.MaxInteractions)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.CacheTTL <= 0 {
		return fmt.Errorf("recommend.cache_ttl must be positive, got %v", r.CacheTTL)
	}
	if r.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be at least 1, got %d", r.DefaultLimit)
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("recommend.max_limit must be >= default_limit (%d), got %d", r.DefaultLimit, r.MaxLimit)
	}
	if r.JanitorInterval <= 0 {
		return fmt.Errorf("recommend.janitor_interval must be positive, got %v", r.JanitorInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks for an http(s) URL with a host and no query string.
// A path prefix such as /api is allowed.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

// LogConfig converts the logging section into a logging.Config.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
