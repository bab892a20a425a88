// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/events"
	"github.com/tomtom215/marquee/internal/interactions"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/predict"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/schedule"
	"github.com/tomtom215/marquee/internal/sentiment"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

// application is the wired server.
type application struct {
	tree    *supervisor.Tree
	closers []io.Closer
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logging.Error().Err(err).Msg("Error during shutdown")
		}
	}
}

// build wires every component from cfg. On error, anything already opened
// is closed.
func build(cfg *config.Config) (_ *application, err error) {
	app := &application{}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	store, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	provider, err := openCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	busCfg := events.DefaultConfig()
	busCfg.BufferSize = cfg.Events.BufferSize
	bus, err := events.NewBus(busCfg, logging.NewWatermillLogger())
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}
	app.closers = append(app.closers, bus)

	rec := recommend.New(provider, store, recommend.Config{
		CacheTTL:     cfg.Recommend.CacheTTL,
		DefaultLimit: cfg.Recommend.DefaultLimit,
	})
	tracker := interactions.NewTracker(store, bus).WithInvalidator(rec)
	bus.SubscribeInvalidation(rec)

	analyzer := sentiment.NewLexiconAnalyzer(cfg.Sentiment.MaxKeyPhrases)
	predictor := predict.New(provider, predict.NewSeededSource(cfg.Predict.Seed),
		predict.WithAnalyzer(analyzer, cfg.Sentiment.MaxKeyPhrases))
	halls := make([]schedule.Hall, 0, len(cfg.Schedule.Halls))
	for _, h := range cfg.Schedule.Halls {
		halls = append(halls, schedule.Hall{Name: h.Name, Capacity: h.Capacity, Premium: h.Premium})
	}
	optimizer := schedule.New(provider, predictor, schedule.Config{
		BaseTicketPrice: cfg.Schedule.BaseTicketPrice,
		Halls:           halls,
	})

	handler := api.NewHandler(api.Services{
		Tracker:     tracker,
		Recommender: rec,
		Predictor:   predictor,
		Analyzer:    analyzer,
		Optimizer:   optimizer,
	}, api.Config{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
		RateLimitDisabled: cfg.Server.RateLimitDisabled,
		RequestTimeout:    cfg.Server.RequestTimeout,
		MaxLimit:          cfg.Recommend.MaxLimit,
		MaxKeyPhrases:     cfg.Sentiment.MaxKeyPhrases,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddEventService(services.NewBusService(bus))
	tree.AddMaintenanceService(services.NewJanitorService(rec, cfg.Recommend.JanitorInterval, logging.Logger()))
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	app.tree = tree

	return app, nil
}

func openStore(cfg config.StorageConfig) (interactions.Store, error) {
	switch cfg.Backend {
	case "badger":
		store, err := interactions.OpenBadgerStore(cfg.Path, cfg.MaxInteractions)
		if err != nil {
			return nil, fmt.Errorf("open interaction store: %w", err)
		}
		logging.Info().Str("path", cfg.Path).Msg("Interaction log persisted to BadgerDB")
		return store, nil
	default:
		return interactions.NewMemoryStore(cfg.MaxInteractions), nil
	}
}

func openCatalog(cfg config.CatalogConfig) (catalog.Provider, error) {
	if cfg.BaseURL != "" {
		client, err := catalog.NewClient(catalog.ClientConfig{
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
			Burst:      cfg.Burst,
			MaxRetries: cfg.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("create catalog client: %w", err)
		}
		return client, nil
	}
	if cfg.File == "" {
		logging.Warn().Msg("No catalog configured; serving an empty catalog")
		return catalog.NewStatic(nil), nil
	}
	static, err := catalog.LoadStaticFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("load catalog file: %w", err)
	}
	logging.Info().Str("file", cfg.File).Int("movies", static.Len()).Msg("Catalog loaded")
	return static, nil
}
