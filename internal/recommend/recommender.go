// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/interactions"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Recommendation kinds, used as cache key segments and metric labels.
const (
	KindCollaborative = "collaborative"
	KindHybrid        = "hybrid"
	KindContent       = "content"
	KindTrending      = "trending"
)

// Config tunes the recommender.
type Config struct {
	// CacheTTL is how long a computed list is served before recomputing.
	CacheTTL time.Duration

	// DefaultLimit replaces non-positive limits.
	DefaultLimit int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:     30 * time.Minute,
		DefaultLimit: 10,
	}
}

// Recommender serves recommendations from the catalog and the interaction log.
// It is safe for concurrent use.
type Recommender struct {
	catalog catalog.Provider
	store   interactions.Store
	cache   *cache.Cache[string, []models.Movie]
	gens    generations
	now     func() time.Time
	config  Config
	logger  zerolog.Logger
}

// Option customizes a Recommender.
type Option func(*Recommender)

// WithClock sets the clock used for contextual adjustments, release recency
// and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Recommender) {
		r.now = now
	}
}

// New creates a recommender.
func New(provider catalog.Provider, store interactions.Store, cfg Config, opts ...Option) *Recommender {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}

	r := &Recommender{
		catalog: provider,
		store:   store,
		now:     time.Now,
		config:  cfg,
		logger:  logging.WithComponent("recommend"),
		gens:    generations{user: map[string]uint64{}},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = cache.New[string, []models.Movie](cfg.CacheTTL, cache.Clock(r.now))
	return r
}

// InvalidateUser drops every cached list derived from userID's interactions
// and returns how many entries were removed.
func (r *Recommender) InvalidateUser(userID string) int {
	r.gens.bumpUser(userID)
	prefix := userKeyPrefix(userID)
	removed := r.cache.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
	if removed > 0 {
		metrics.RecommendCacheInvalidations.Add(float64(removed))
	}
	return removed
}

// InvalidateAll empties the cache.
func (r *Recommender) InvalidateAll() {
	r.gens.bumpAll()
	n := r.cache.Len()
	r.cache.Clear()
	if n > 0 {
		metrics.RecommendCacheInvalidations.Add(float64(n))
	}
	r.logger.Info().Int("removed", n).Msg("Recommendation cache cleared")
}

// SweepCache removes expired entries and returns how many were removed.
func (r *Recommender) SweepCache() int {
	n := r.cache.Sweep()
	if n > 0 {
		metrics.CacheSweptEntries.WithLabelValues("recommendations").Add(float64(n))
	}
	return n
}

// CacheStats returns the recommendation cache counters.
func (r *Recommender) CacheStats() cache.Stats {
	return r.cache.Stats()
}

func userKeyPrefix(userID string) string {
	return "user:" + userID + ":"
}

func userKey(userID, kind string, limit int) string {
	return fmt.Sprintf("%s%s:%d", userKeyPrefix(userID), kind, limit)
}

func movieKey(movieID int, kind string, limit int) string {
	return fmt.Sprintf("movie:%d:%s:%d", movieID, kind, limit)
}

func (r *Recommender) limit(n int) int {
	if n <= 0 {
		return r.config.DefaultLimit
	}
	return n
}

// generation identifies the invalidation state a result was computed under.
type generation struct {
	all, user uint64
}

// generations counts invalidations globally and per user. A result is only
// cached if no invalidation that covers it happened while it was computed.
type generations struct {
	mu   sync.Mutex
	all  uint64
	user map[string]uint64
}

func (g *generations) current(userID string) generation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return generation{all: g.all, user: g.user[userID]}
}

func (g *generations) bumpUser(userID string) {
	g.mu.Lock()
	g.user[userID]++
	g.mu.Unlock()
}

// bumpAll also forgets per-user counters; the global bump already
// outdates every snapshot taken before it.
func (g *generations) bumpAll() {
	g.mu.Lock()
	g.all++
	clear(g.user)
	g.mu.Unlock()
}

// cached serves key from the cache or computes, stores and returns it.
// userID is empty for lists that do not depend on a user. Failures are
// logged and yield an empty, uncached list. A result whose user (or the whole
// cache) was invalidated mid-compute is returned but not stored.
func (r *Recommender) cached(ctx context.Context, kind, userID, key string, compute func() ([]models.Movie, error)) []models.Movie {
	gen := r.gens.current(userID)
	if movies, ok := r.cache.Get(key); ok {
		metrics.RecordCacheLookup(kind, true)
		metrics.RecommendationsServed.WithLabelValues(kind).Inc()
		return slices.Clone(movies)
	}
	metrics.RecordCacheLookup(kind, false)

	movies, err := compute()
	if err != nil {
		metrics.RecommendFailures.WithLabelValues(kind).Inc()
		logging.Ctx(ctx).Warn().Err(err).
			Str("component", "recommend").
			Str("kind", kind).
			Str("cache_key", key).
			Msg("Recommendation failed, returning empty list")
		return []models.Movie{}
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	if r.gens.current(userID) == gen {
		r.cache.Set(key, movies)
	} else {
		logging.Ctx(ctx).Debug().
			Str("component", "recommend").
			Str("cache_key", key).
			Msg("Invalidated while computing, result not cached")
	}
	metrics.RecommendationsServed.WithLabelValues(kind).Inc()
	return slices.Clone(movies)
}

// userLog returns userID's interactions, oldest first.
func (r *Recommender) userLog(ctx context.Context, userID string) ([]models.Interaction, error) {
	log, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return interactions.ForUser(log, userID), nil
}

// scored pairs a movie with its score for stable ranking.
type scored struct {
	movie models.Movie
	score float64
}

// rank stable-sorts by descending score and returns at most limit movies.
func rank(items []scored, limit int) []models.Movie {
	slices.SortStableFunc(items, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	if limit > len(items) {
		limit = len(items)
	}
	out := make([]models.Movie, 0, limit)
	for _, it := range items[:limit] {
		out = append(out, it.movie)
	}
	return out
}
