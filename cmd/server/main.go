// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Command server runs the Marquee HTTP API.
//
// Startup order:
//
//  1. Configuration (defaults, then CONFIG_PATH or config.yaml, then env)
//  2. Logging
//  3. Interaction store (memory or BadgerDB)
//  4. Movie catalog (REST client when CATALOG_BASE_URL is set, else a JSON file)
//  5. Event bus, tracker, recommender, predictor, analyzer, optimizer
//  6. Supervisor tree with the event bus, cache janitor and HTTP server
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains in-flight
// requests for SERVER_SHUTDOWN_TIMEOUT before exiting.
//
// Example:
//
//	export CATALOG_FILE=./movies.json
//	export STORAGE_BACKEND=badger STORAGE_PATH=/var/lib/marquee
//	./server
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LogConfig())

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage", cfg.Storage.Backend).
		Bool("remote_catalog", cfg.Catalog.BaseURL != "").
		Msg("Starting Marquee")

	app, err := build(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := app.tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	logging.Info().Msg("Marquee stopped")
}
