package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory is an in-process Store backed by a TTL cache. Suitable for
// single-instance deployments; multi-instance deployments should use the
// redis backend so invalidations reach every process.
type Memory struct {
	cache *ttlcache.Cache[string, Entry]
}

// NewMemory creates a memory store with the given default TTL and starts
// its eviction loop.
func NewMemory(ttl time.Duration) *Memory {
	c := ttlcache.New(
		ttlcache.WithTTL[string, Entry](ttl),
		ttlcache.WithDisableTouchOnHit[string, Entry](),
	)

	go c.Start()

	return &Memory{cache: c}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (Entry, error) {
	item := m.cache.Get(key)
	if item == nil || item.IsExpired() {
		return Entry{}, ErrCacheMiss
	}

	return item.Value(), nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}

	m.cache.Set(key, entry, ttl)

	return nil
}

// Invalidate implements Store.
func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.cache.Delete(key)

	return nil
}

// FlushAll implements Store.
func (m *Memory) FlushAll(_ context.Context) error {
	m.cache.DeleteAll()

	return nil
}

// Stop terminates the eviction loop.
func (m *Memory) Stop() {
	m.cache.Stop()
}
