// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package cache provides a thread-safe, typed in-memory cache with TTL support.

It fronts calls that are slow or rate limited on the Discord side: guild
metadata lookups, channel listings and the aggregated dashboard statistics.

# Overview

  - Thread-safe concurrent access (sync.RWMutex)
  - Per-entry time-to-live, checked lazily on Get and swept every five minutes
  - Hit, miss and size reporting to Prometheus under the cache name

# Usage Example

	meta := cache.New[models.GuildMetadata]("metadata", 5*time.Minute)
	defer meta.Close()

	if m, ok := meta.Get(guildID); ok {
	    return m, nil
	}
	m, err := fetch(ctx, guildID)
	if err != nil {
	    return models.GuildMetadata{}, err
	}
	meta.Set(guildID, m)

A zero or negative TTL stores entries that are already expired.
*/
package cache
