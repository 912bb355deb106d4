// Package cache provides byte-oriented key/value caches used to remember
// measured image sizes.
//
// Backends:
//   - [MemoryCache]: process-local, the default; lives as long as the gallery
//   - [RedisCache]: shared by several `photowall serve` instances
//   - [NullCache]: never stores anything, for tests and --no-size-cache
//
// Search results are never cached; only image dimensions, which are a pure
// function of the image bytes.
package cache

import (
	"context"
	"time"
)

// TTLSize is how long a measured size is kept in shared backends.
// Process-local galleries never evict.
const TTLSize = 7 * 24 * time.Hour

// Cache is the storage contract shared by all backends.
//
// Get reports a hit with ok=true. A miss is (nil, false, nil); errors are
// reserved for backend failures, which callers treat as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
