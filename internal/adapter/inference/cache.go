package inference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a bounded, time-ordered similarity cache. Entries expire
// after ttl; when the bound is reached the oldest entry is evicted.
// The clock is injected so expiry is testable without sleeping.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	max     int
	now     func() time.Time

	hits   int64
	misses int64
}

type cacheEntry struct {
	value float64
	at    time.Time
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewCache creates a cache holding at most maxEntries values for ttl.
// now defaults to time.Now when nil.
func NewCache(ttl time.Duration, maxEntries int, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]cacheEntry, maxEntries),
		ttl:     ttl,
		max:     maxEntries,
		now:     now,
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.at) > c.ttl {
		c.misses++
		return 0, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when full.
func (c *Cache) Set(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{value: value, at: c.now()}
}

// EvictExpired removes all entries older than the TTL and returns the
// number removed. It is invoked by the background sweep and may also
// be called explicitly.
func (c *Cache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.at) > c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// Sweep evicts expired entries every interval until ctx is cancelled.
// It touches no state beyond the cache itself.
func (c *Cache) Sweep(ctx context.Context, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.EvictExpired(); n > 0 {
				log.DebugContext(ctx, "cache sweep", slog.Int("evicted", n))
			}
		}
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.at.Before(oldestAt) {
			oldestKey, oldestAt = k, e.at
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// SimilarityProvider is the signal the cached wrapper fronts.
type SimilarityProvider interface {
	Similarity(ctx context.Context, processedGuess, processedTheme string) (float64, error)
}

// CachedSimilarity decorates a SimilarityProvider with the TTL cache
// and deduplicates concurrent identical lookups via singleflight, so a
// burst of players guessing the same phrase costs one remote call.
type CachedSimilarity struct {
	next  SimilarityProvider
	cache *Cache
	group singleflight.Group
}

// NewCachedSimilarity wraps next with cache.
func NewCachedSimilarity(next SimilarityProvider, cache *Cache) *CachedSimilarity {
	return &CachedSimilarity{next: next, cache: cache}
}

// Similarity serves from the cache when possible, otherwise delegates.
// Errors are never cached.
func (c *CachedSimilarity) Similarity(ctx context.Context, processedGuess, processedTheme string) (float64, error) {
	key := processedGuess + "\x1f" + processedTheme

	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		sim, err := c.next.Similarity(ctx, processedGuess, processedTheme)
		if err != nil {
			return 0.0, err
		}
		c.cache.Set(key, sim)
		return sim, nil
	})
	if err != nil {
		return 0, fmt.Errorf("similarity: %w", err)
	}
	return v.(float64), nil
}
