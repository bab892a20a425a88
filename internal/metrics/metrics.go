// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package metrics declares the Prometheus collectors for Marquee.
//
// Collectors are registered on the default registry at init through promauto
// and exposed by the API at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Recommendation cache
	RecommendCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recommend_cache_lookups_total",
			Help: "Recommendation cache lookups by kind and result",
		},
		[]string{"kind", "result"}, // result: hit, miss
	)

	RecommendCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_recommend_cache_invalidations_total",
			Help: "Recommendation cache entries removed by invalidation",
		},
	)

	CacheSweptEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_cache_swept_entries_total",
			Help: "Expired cache entries removed by the janitor",
		},
		[]string{"cache"},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recommendations_served_total",
			Help: "Recommendation lists served by kind",
		},
		[]string{"kind"}, // hybrid, collaborative, content, trending
	)

	RecommendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recommend_failures_total",
			Help: "Recommendation computations that degraded to an empty result",
		},
		[]string{"kind"},
	)

	// Catalog client
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_catalog_requests_total",
			Help: "Requests made to the movie catalog",
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_catalog_request_duration_seconds",
			Help:    "Movie catalog request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Predictions
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_predictions_total",
			Help: "Predictions computed by kind",
		},
		[]string{"kind"}, // popularity, box_office, demographics, insights
	)

	PredictionBranchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_prediction_branch_failures_total",
			Help: "Insight fan-out branches that fell back to defaults",
		},
		[]string{"branch"},
	)

	// Sentiment
	SentimentAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_sentiment_analyses_total",
			Help: "Review analyses by mode and resulting label",
		},
		[]string{"mode", "sentiment"},
	)

	// Scheduling
	SchedulesOptimized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_schedules_optimized_total",
			Help: "Theater schedules produced by the optimizer",
		},
	)

	// Interactions and events
	InteractionsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_interactions_tracked_total",
			Help: "Interactions appended to the log by type",
		},
		[]string{"type"},
	)

	InteractionStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_interaction_store_errors_total",
			Help: "Interaction store failures by operation",
		},
		[]string{"operation"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_events_published_total",
			Help: "Events published to the in-process bus",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_events_handled_total",
			Help: "Events consumed from the in-process bus",
		},
		[]string{"topic", "result"}, // ack, nack
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCacheLookup records a recommendation cache hit or miss.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	RecommendCacheLookups.WithLabelValues(kind, result).Inc()
}

// RecordCatalogRequest records one catalog round trip.
func RecordCatalogRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	CatalogRequestsTotal.WithLabelValues(endpoint, label).Inc()
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}
