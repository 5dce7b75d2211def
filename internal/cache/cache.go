// Package cache implements the read-through settings cache. The cache is
// best-effort: it is never the system of record, and callers treat any
// backend failure as a miss.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache entry not found")

// GlobalOwnerIdentity is the owner identity segment used for settings
// without an owner.
const GlobalOwnerIdentity = "global"

// Entry is what gets cached for a setting: its type tag and the raw
// (decrypted) value. Caching the raw form keeps cache hits and store
// reads casting through the same registry path, so a hit can never
// change the value's type.
type Entry struct {
	Type string `json:"type"`
	Raw  string `json:"raw"`
}

// Store is a TTL key/value backend for settings entries.
type Store interface {
	// Get returns the cached entry or ErrCacheMiss.
	Get(ctx context.Context, key string) (Entry, error)
	// Put caches an entry for ttl.
	Put(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	// Invalidate drops a single entry.
	Invalidate(ctx context.Context, key string) error
	// FlushAll drops every settings entry.
	FlushAll(ctx context.Context) error
}

// Key builds the cache key for a setting as prefix:ownerIdentity:key.
func Key(prefix, ownerIdentity, key string) string {
	return prefix + ":" + ownerIdentity + ":" + key
}
