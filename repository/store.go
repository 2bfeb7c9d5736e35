package repository

import (
	"context"
	"time"

	domainCache "github.com/playlytics/cachecore/domains/cache"
)

// Store is the contract over the key-value backend. Every operation degrades
// gracefully: backend or serialization failures become false/absent/zero
// results and are logged, never raised. Only construction of a concrete
// store may fail.
type Store interface {
	// Set serializes value and stores it under key with the given TTL,
	// replacing any previous entry in full.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	// Get fetches and deserializes the value under key. ok is false both
	// when the key does not exist and when decoding fails.
	Get(ctx context.Context, key string) (any, bool)
	// DeleteMatching removes every key matching the glob pattern and
	// returns how many were removed. Returns 0 on backend error.
	DeleteMatching(ctx context.Context, pattern string) int
	// FlushAll empties the entire namespace, all categories and tenants.
	FlushAll(ctx context.Context) bool
	// Stats reports best-effort backend introspection, counting keys for
	// the given categories.
	Stats(ctx context.Context, categories []string) domainCache.CacheStats
	// HealthCheck performs a synthetic write/read/delete round trip against
	// a reserved probe key.
	HealthCheck(ctx context.Context) domainCache.HealthStatus
}
