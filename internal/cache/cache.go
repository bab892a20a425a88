// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package cache provides a typed, thread-safe TTL cache with an injectable clock.
//
// Expired entries are never returned. They are removed lazily on Get, or in
// bulk by Sweep, which the supervisor runs on an interval.
//
//	recs := cache.New[string, []models.Movie](30*time.Minute, nil)
//	recs.Set("user:u1:hybrid:10", movies)
//	if movies, ok := recs.Get("user:u1:hybrid:10"); ok {
//	    return movies
//	}
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

type entry[V any] struct {
	value      V
	insertedAt time.Time
	expiresAt  time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Evictions int64     `json:"evictions"`
	Keys      int       `json:"keys"`
	LastSweep time.Time `json:"last_sweep"`
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache is a TTL cache keyed by K. The zero value is not usable; call New.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     Clock
	stats   Stats
}

// New creates a cache whose entries live for ttl. A nil clock uses time.Now.
func New[K comparable, V any](ttl time.Duration, clock Clock) *Cache[K, V] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     clock,
	}
}

// TTL returns the default entry lifetime.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if present and not expired. An expired entry
// is removed and counted as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()
		return zero, false
	}

	if !now.Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && !now.Before(cur.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
		c.stats.Misses++
		c.mu.Unlock()
		return zero, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a specific lifetime.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, insertedAt: now, expiresAt: now.Add(ttl)}
	c.mu.Unlock()
}

// IsExpired reports whether key is absent or past its TTL. It does not
// change hit or miss counters.
func (c *Cache[K, V]) IsExpired(key K) bool {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	return !ok || !c.now().Before(e.expiresAt)
}

// Age returns how long ago key was inserted.
func (c *Cache[K, V]) Age(key K) (time.Duration, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.insertedAt), true
}

// Delete removes key.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Evictions++
	}
	c.mu.Unlock()
}

// DeleteFunc removes every entry whose key satisfies match and returns the
// number removed.
func (c *Cache[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k := range c.entries {
		if match(k) {
			delete(c.entries, k)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	return removed
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.stats.Evictions += int64(len(c.entries))
	c.entries = make(map[K]entry[V])
	c.mu.Unlock()
}

// Sweep removes all expired entries and returns how many were removed.
func (c *Cache[K, V]) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	c.stats.Evictions += int64(removed)
	c.stats.LastSweep = now
	return removed
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Keys = len(c.entries)
	return s
}
