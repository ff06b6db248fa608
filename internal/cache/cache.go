// Package cache provides a namespaced key/value store with per-entry TTL.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Namespaces and their default lifetimes.
const (
	NamespacePrices         = "prices"
	NamespacePastEvents     = "past_events"
	NamespaceUpcomingEvents = "upcoming_events"

	PricesTTL         = 24 * time.Hour
	PastEventsTTL     = 15 * time.Minute
	UpcomingEventsTTL = time.Hour
)

// Cache stores values under (namespace, key). Expired entries are misses.
type Cache interface {
	Get(namespace, key string) (any, bool)
	Set(namespace, key string, value any, ttl time.Duration)
}

// Loader computes a value on a cache miss. Only nil-error results are stored.
type Loader func() (any, error)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// MemoryCache is an in-process Cache safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source, used by tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func compositeKey(namespace, key string) string {
	return namespace + "/" + key
}

func (c *MemoryCache) Get(namespace, key string) (any, bool) {
	k := compositeKey(namespace, key)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > e.ttl {
		c.mu.Lock()
		if cur, still := c.entries[k]; still && cur == e {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(namespace, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[compositeKey(namespace, key)] = &entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrLoad returns the cached value or runs load once for all concurrent
// callers of the same key, storing a successful result for ttl.
func (c *MemoryCache) GetOrLoad(namespace, key string, ttl time.Duration, load Loader) (any, error) {
	if v, ok := c.Get(namespace, key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(compositeKey(namespace, key), func() (any, error) {
		if v, ok := c.Get(namespace, key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(namespace, key, v, ttl)
		return v, nil
	})
	return v, err
}

// GetOrLoad uses the MemoryCache single-flight path when available and a
// plain get-then-set otherwise.
func GetOrLoad(c Cache, namespace, key string, ttl time.Duration, load Loader) (any, error) {
	if mc, ok := c.(*MemoryCache); ok {
		return mc.GetOrLoad(namespace, key, ttl, load)
	}
	if v, ok := c.Get(namespace, key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(namespace, key, v, ttl)
	return v, nil
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(string, string) (any, bool)           { return nil, false }
func (Nop) Set(string, string, any, time.Duration) {}
