// Package cache stores solved layouts, sampled animations and rendered
// artifacts between runs.
//
// # Backends
//
// [Cache] has four implementations, selected by [Open] from a target
// string:
//
//   - "" or "none": [NullCache], nothing is stored
//   - "redis://..." or "rediss://...": [RedisCache]
//   - "mongodb://..." or "mongodb+srv://...": [MongoCache]
//   - anything else: a [FileCache] rooted at that directory
//
// # Keys
//
// A [Keyer] derives keys from the hash of a scene document and the options
// that affect the result, so that changing either misses the cache.
// [ScopedKeyer] prefixes keys to keep tenants of a shared backend apart.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the cache backend for target.
func Open(ctx context.Context, target string) (Cache, error) {
	switch {
	case target == "" || target == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		return NewRedisCache(ctx, target)
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		return NewMongoCache(ctx, target)
	}
	return NewFileCache(strings.TrimPrefix(target, "file://"))
}
