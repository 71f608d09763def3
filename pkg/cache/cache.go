// Package cache stores finished pipeline stages so repeated runs with the
// same options skip the work.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for batch runs spread over machines
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// A [Keyer] turns stage inputs into keys. Every key hashes the full option
// set of its stage, so changing a profile value or a layout budget never
// returns a stale level. Wrap a keyer in [NewScopedKeyer] to give separate
// runs disjoint namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero keeps the entry until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Entry lifetimes per stage. Generated levels are pure functions of their
// options, so they keep longest.
const (
	TTLLevel = 30 * 24 * time.Hour
	TTLSnap  = 30 * 24 * time.Hour
	TTLTune  = 7 * 24 * time.Hour
)
