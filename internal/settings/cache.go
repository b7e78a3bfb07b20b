// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"sync"

	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

const cacheName = "settings"

// Cache holds the last known settings of each guild. Entries never expire;
// they are replaced on write-through and dropped by Invalidate.
//
// Values are copied on the way in and on the way out, so callers may mutate
// what they get without affecting the cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.GuildSettings
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]models.GuildSettings)}
}

// Get returns a copy of the cached settings of guildID.
func (c *Cache) Get(guildID string) (models.GuildSettings, bool) {
	c.mu.RLock()
	s, ok := c.entries[guildID]
	c.mu.RUnlock()

	metrics.RecordCacheLookup(cacheName, ok)
	if !ok {
		return models.GuildSettings{}, false
	}
	return s.Clone(), true
}

// Put stores a copy of s for guildID.
func (c *Cache) Put(guildID string, s models.GuildSettings) {
	c.mu.Lock()
	c.entries[guildID] = s.Clone()
	n := len(c.entries)
	c.mu.Unlock()

	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(n))
}

// Invalidate drops guildID so that the next Get misses.
func (c *Cache) Invalidate(guildID string) {
	c.mu.Lock()
	delete(c.entries, guildID)
	n := len(c.entries)
	c.mu.Unlock()

	metrics.CacheInvalidations.WithLabelValues(cacheName).Inc()
	metrics.CacheSize.WithLabelValues(cacheName).Set(float64(n))
}

// GetAll returns a copy of every cached entry.
func (c *Cache) GetAll() map[string]models.GuildSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.GuildSettings, len(c.entries))
	for id, s := range c.entries {
		out[id] = s.Clone()
	}
	return out
}

// Len returns the number of cached guilds.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
