// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache[string] {
	t.Helper()
	c := New[string](t.Name(), ttl)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("guild:1", "Guild One")
	value, exists := c.Get("guild:1")
	if !exists {
		t.Fatal("Expected guild:1 to exist")
	}
	if value != "Guild One" {
		t.Errorf("Expected Guild One, got %q", value)
	}

	if v, exists := c.Get("guild:2"); exists || v != "" {
		t.Errorf("Expected miss with zero value, got %q, %v", v, exists)
	}
}

func TestCacheTypedValues(t *testing.T) {
	c := New[models.GuildMetadata]("metadata", time.Minute)
	defer c.Close()

	c.Set("1", models.GuildMetadata{Name: "Guild", MemberCount: 12})
	meta, ok := c.Get("1")
	if !ok {
		t.Fatal("Expected metadata to be cached")
	}
	if meta.Name != "Guild" || meta.MemberCount != 12 {
		t.Errorf("Get() = %+v", meta)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := newTestCache(t, 100*time.Millisecond)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want expired entry removed on Get", c.Len())
	}
}

func TestCacheZeroTTL(t *testing.T) {
	c := newTestCache(t, 0)

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key with zero TTL to be expired immediately")
	}
}

func TestCacheExpireKeepsFreshEntry(t *testing.T) {
	c := newTestCache(t, time.Minute)

	// The entry was read as expired, then replaced before the write lock.
	observed := time.Now()
	c.Set("guild:1", "fresh")
	c.expire("guild:1", observed)

	if v, ok := c.Get("guild:1"); !ok || v != "fresh" {
		t.Errorf("Get() = %q, %v; want the entry set after the expired read", v, ok)
	}

	c.mu.Lock()
	c.entries["guild:2"] = Entry[string]{Data: "stale", ExpiresAt: observed.Add(-time.Second)}
	c.mu.Unlock()
	c.expire("guild:2", observed)
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want the stale entry removed", c.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	before := testutil.ToFloat64(metrics.CacheInvalidations.WithLabelValues(t.Name()))
	c.Delete("a")
	if _, exists := c.Get("a"); exists {
		t.Error("Expected a to be deleted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if got := testutil.ToFloat64(metrics.CacheInvalidations.WithLabelValues(t.Name())); got != before+1 {
		t.Errorf("invalidations = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(metrics.CacheSize.WithLabelValues(t.Name())); got != 2 {
		t.Errorf("cache size gauge = %v, want 2", got)
	}
}

func TestCacheLookupMetrics(t *testing.T) {
	c := newTestCache(t, time.Minute)
	hits := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(t.Name()))
	misses := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues(t.Name()))

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(t.Name())); got != hits+2 {
		t.Errorf("hits = %v, want %v", got, hits+2)
	}
	if got := testutil.ToFloat64(metrics.CacheMisses.WithLabelValues(t.Name())); got != misses+1 {
		t.Errorf("misses = %v, want %v", got, misses+1)
	}
}

func TestCacheManualCleanup(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	time.Sleep(100 * time.Millisecond)
	c.Set("key3", "value3")
	c.cleanup()

	if c.Len() != 1 {
		t.Errorf("Len() = %d after cleanup, want 1", c.Len())
	}
	if _, ok := c.Get("key3"); !ok {
		t.Error("Expected unexpired key3 to survive cleanup")
	}
}

func TestCacheCloseIsIdempotent(t *testing.T) {
	c := New[string]("test", time.Minute)
	c.Close()
	c.Close()
}

func TestCacheConcurrency(t *testing.T) {
	c := newTestCache(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("guild:%d", j%5)
				c.Set(key, fmt.Sprintf("%d", id))
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 5 {
		t.Errorf("Len() = %d, want at most 5 distinct keys", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string]("bench", time.Minute)
	defer c.Close()
	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}
