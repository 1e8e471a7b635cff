package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer. Allows swapping the
// implementation (Redis in production, in-memory in tests).
type Cache interface {
	// Get reads a key and unmarshals it into dest. found=false is a cache
	// miss and leaves dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL (0 = no expiry).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
