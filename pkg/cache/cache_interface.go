package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer used by repositories.
// Implementations: infrastructure/cache.RedisCache.
type Cache interface {
	// Get loads key into dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, dest populated
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value JSON encoded with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
