// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/guildsync/internal/metrics"
)

// cleanupInterval is how often expired entries are swept in the background.
const cleanupInterval = 5 * time.Minute

// Entry represents a cached item with expiration
type Entry[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// Cache provides a thread-safe in-memory cache with TTL support.
// Lookups and size are reported to Prometheus under the cache name.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	ttl     time.Duration
	name    string

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a new thread-safe in-memory cache with automatic expiration.
//
// A background goroutine removes expired entries every five minutes until
// Close is called. Expired entries are also dropped lazily on Get.
//
// Example:
//
//	guilds := cache.New[models.GuildMetadata]("metadata", 5*time.Minute)
//	defer guilds.Close()
//	guilds.Set(guildID, meta)
func New[V any](name string, ttl time.Duration) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]Entry[V]),
		ttl:     ttl,
		name:    name,
		stop:    make(chan struct{}),
	}

	go c.cleanupLoop(cleanupInterval)

	return c
}

// Get retrieves a value from the cache by key. Expired entries are removed
// and counted as misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	now := time.Now()
	if !exists || now.After(entry.ExpiresAt) {
		if exists {
			c.expire(key, now)
		}
		metrics.RecordCacheLookup(c.name, false)
		return zero, false
	}

	metrics.RecordCacheLookup(c.name, true)
	return entry.Data, true
}

// expire deletes key if it is still expired at now. A Set that landed after
// the caller's read keeps its entry.
func (c *Cache[V]) expire(key string, now time.Time) {
	c.mu.Lock()
	entry, exists := c.entries[key]
	if exists && now.After(entry.ExpiresAt) {
		delete(c.entries, key)
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.updateSize(n)
}

// Set stores a value with the TTL configured at cache creation.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = Entry[V]{
		Data:      value,
		ExpiresAt: time.Now().Add(c.ttl),
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.updateSize(n)
}

// Delete removes a specific cache entry by key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	n := len(c.entries)
	c.mu.Unlock()

	c.updateSize(n)
	metrics.CacheInvalidations.WithLabelValues(c.name).Inc()
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background cleanup goroutine. It is safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanupLoop periodically removes expired entries
func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (c *Cache[V]) cleanup() {
	now := time.Now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.updateSize(n)
}

func (c *Cache[V]) updateSize(n int) {
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(n))
}
