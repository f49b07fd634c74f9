// Package cache provides a key/value cache capability with TTL used to
// deduplicate identical search requests. The cache is best-effort: callers
// treat read failures as misses and write failures as no-ops.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key does not exist or has expired.
var ErrMiss = errors.New("cache: key not found")

// Cache is the capability interface consumed by the search path. The Redis
// implementation backs production; an in-memory implementation substitutes
// in tests.
type Cache interface {
	// Get retrieves the value stored at key. Returns ErrMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key with the given time-to-live. Entries are
	// replaced wholesale; there is no partial update.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePattern removes all keys matching a glob pattern (for example
	// "properties_search:*") and returns the number of keys removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)
}
