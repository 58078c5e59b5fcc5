package optimistic

import (
	"context"
	"sync"
)

// Key identifies one cached query result dependent views may hold.
type Key string

// Invalidator marks cached query results as stale so dependent views refetch
// on their next read. Invalidation is advisory: it performs no refetching.
type Invalidator interface {
	Invalidate(keys ...Key)
}

// QueryCache is a read-through cache of query results keyed by opaque keys.
// Views share one cache; only commit transitions write invalidations into it.
type QueryCache struct {
	mu      sync.Mutex
	entries map[Key]*cacheEntry
}

type cacheEntry struct {
	value any
	stale bool
}

// NewQueryCache creates an empty query cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[Key]*cacheEntry)}
}

// Invalidate marks the given keys stale. Unknown keys are ignored.
func (c *QueryCache) Invalidate(keys ...Key) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if entry, ok := c.entries[key]; ok {
			entry.stale = true
		}
	}
}

// Get returns the cached value for key, calling fetch when the entry is
// missing or stale. A fetch error leaves any stale entry in place so the
// next read retries.
func (c *QueryCache) Get(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	if c == nil {
		return fetch(ctx)
	}
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.stale {
		value := entry.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{value: value}
	c.mu.Unlock()
	return value, nil
}

// Stale reports whether the key currently needs a refetch.
func (c *QueryCache) Stale(key Key) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return true
	}
	return entry.stale
}
