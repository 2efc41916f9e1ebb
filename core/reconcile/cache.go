package reconcile

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// cacheEntry holds an engine built from named sources.
type cacheEntry struct {
	engine *Engine
	built  time.Time
}

// Cache reuses engines built for the same sources and keys.
// Engines are immutable, so a cached engine is valid until its TTL expires.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

// NewCache creates a cache. A zero TTL disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// CacheKey digests source names and engine options into a cache key.
func CacheKey(leftSource, rightSource string, opts Options) string {
	d := xxhash.New()
	for _, part := range []string{leftSource, rightSource, opts.LeftOn, opts.RightOn, opts.LeftSuffix, opts.RightSuffix, strconv.Itoa(opts.MaxPairs)} {
		_, _ = d.WriteString(part)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func (c *Cache) expired(entry *cacheEntry) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(entry.built) > c.ttl
}

// GetOrBuild returns the cached engine for key, or builds one.
// Concurrent callers for the same key share a single build.
func (c *Cache) GetOrBuild(ctx context.Context, key string, build func(ctx context.Context) (*Engine, error)) (*Engine, error) {
	// Fast path: check if cache exists and is fresh
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !c.expired(entry) {
		return entry.engine, nil
	}

	// Slow path: build using singleflight to prevent stampedes
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		entry, exists := c.entries[key]
		c.mu.RUnlock()

		if exists && !c.expired(entry) {
			return entry.engine, nil
		}

		engine, err := build(ctx)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[key] = &cacheEntry{engine: engine, built: c.now()}
			c.mu.Unlock()
		}

		return engine, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*Engine), nil
}

// Invalidate drops the engine cached under key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of cached engines, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
