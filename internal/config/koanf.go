// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marquee/config.yaml",
	"/etc/marquee/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RequestTimeout:    10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:    "",
			File:       "",
			Timeout:    10 * time.Second,
			RateLimit:  20,
			Burst:      10,
			MaxRetries: 3,
		},
		Storage: StorageConfig{
			Backend:         "memory",
			Path:            "/data/interactions",
			MaxInteractions: 100,
		},
		Recommend: RecommendConfig{
			CacheTTL:        30 * time.Minute,
			DefaultLimit:    10,
			MaxLimit:        50,
			JanitorInterval: 5 * time.Minute,
		},
		Predict: PredictConfig{
			Seed: 0,
		},
		Sentiment: SentimentConfig{
			MaxKeyPhrases: 10,
		},
		Schedule: ScheduleConfig{
			BaseTicketPrice: 10,
		},
		Events: EventsConfig{
			BufferSize: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration with layered sources:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// HTTP_PORT -> server.port, CATALOG_BASE_URL -> catalog.base_url, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot leak
// arbitrary keys into the config tree.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_request_timeout":  "server.request_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	"catalog_base_url":    "catalog.base_url",
	"catalog_file":        "catalog.file",
	"catalog_timeout":     "catalog.timeout",
	"catalog_rate_limit":  "catalog.rate_limit",
	"catalog_burst":       "catalog.burst",
	"catalog_max_retries": "catalog.max_retries",

	"storage_backend":          "storage.backend",
	"storage_path":             "storage.path",
	"storage_max_interactions": "storage.max_interactions",

	"recommend_cache_ttl":        "recommend.cache_ttl",
	"recommend_default_limit":    "recommend.default_limit",
	"recommend_max_limit":        "recommend.max_limit",
	"recommend_janitor_interval": "recommend.janitor_interval",

	"predict_seed": "predict.seed",

	"sentiment_max_key_phrases": "sentiment.max_key_phrases",

	"schedule_base_ticket_price": "schedule.base_ticket_price",

	"events_buffer_size": "events.buffer_size",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
