// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend implements the rule-based movie recommendation engine.
//
// # Scorers
//
//   - Genre preferences: interaction-weighted genre shares with a normalized
//     Shannon entropy diversity score
//   - Content-based: additive similarity over genres, director, cast, rating
//     and release year
//   - Collaborative: unseen movies scored by the user's genre weights and
//     scaled by rating
//   - Hybrid: rank-blended collaborative and content lists with time-of-day
//     and weekend adjustments
//   - Trending: recency plus rating, used as the cold-start fallback
//
// # Determinism
//
// Every scorer is a pure function of the interaction log, the catalog and the
// injected clock. Sorting is stable, so equal scores keep catalog order.
//
// # Failure Semantics
//
// Public methods never return errors. Upstream failures are logged, counted
// in marquee_recommend_failures_total and turned into an empty result.
//
// # Caching
//
// Collaborative, hybrid, content and trending lists are cached for the
// configured TTL (30 minutes by default). User-scoped keys are dropped by
// InvalidateUser, which the event bus calls after every tracked interaction.
//
//	rec := recommend.New(provider, store, recommend.DefaultConfig())
//	movies := rec.Hybrid(ctx, "u1", 10)
package recommend
