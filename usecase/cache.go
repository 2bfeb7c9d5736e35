package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	"github.com/playlytics/cachecore/pkg/cachekey"
	"github.com/playlytics/cachecore/repository"
)

// cacheService is the read-through facade over the store. It owns nothing
// the store does not: no locking, no queuing, no single-flight. The host
// application creates one instance at startup and passes it to consumers.
type cacheService struct {
	store  repository.Store
	policy domainCache.TTLPolicy
}

// NewCacheService creates the cache facade over the given store.
func NewCacheService(store repository.Store, policy domainCache.TTLPolicy) domainCache.ICacheUsecase {
	return &cacheService{store: store, policy: policy}
}

func (s *cacheService) Get(ctx context.Context, key string) (any, bool) {
	return s.store.Get(ctx, key)
}

func (s *cacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = s.policy.Default()
	}
	return s.store.Set(ctx, key, value, ttl)
}

// GetOrCompute serves the cached value for (category, params) or computes
// it. Compute failures propagate unchanged and nothing is stored; a failed
// store after a successful compute is logged and the fresh value is still
// returned.
//
// Concurrent callers missing on the same key all compute and all write;
// the last write wins. See ICacheUsecase.
func (s *cacheService) GetOrCompute(ctx context.Context, category string, compute domainCache.ComputeFunc, params cachekey.Params, ttl time.Duration) (any, error) {
	key := cachekey.Derive(category, params)

	if cached, ok := s.store.Get(ctx, key); ok {
		logrus.WithFields(logrus.Fields{"category": category, "key": key}).Debug("[CACHE] lookup HIT")
		return cached, nil
	}
	logrus.WithFields(logrus.Fields{"category": category, "key": key}).Debug("[CACHE] lookup MISS, computing")

	result, err := compute(ctx, params)
	if err != nil {
		logrus.WithError(err).WithField("category", category).Error("[CACHE] compute function failed")
		return nil, err
	}

	if ttl <= 0 {
		ttl = s.policy.For(category)
	}
	if !s.store.Set(ctx, key, result, ttl) {
		logrus.WithFields(logrus.Fields{"category": category, "key": key}).Warn("[CACHE] computed but not cached")
	}

	return result, nil
}

// Cached wraps fn into a compute function that always goes through
// GetOrCompute for the given category. Parameter-to-key binding stays
// explicit: the caller passes the named parameter map on every call.
func (s *cacheService) Cached(category string, ttl time.Duration, fn domainCache.ComputeFunc) domainCache.ComputeFunc {
	return func(ctx context.Context, params cachekey.Params) (any, error) {
		return s.GetOrCompute(ctx, category, fn, params, ttl)
	}
}

func (s *cacheService) Stats(ctx context.Context) domainCache.CacheStats {
	return s.store.Stats(ctx, s.policy.Categories())
}

func (s *cacheService) HealthCheck(ctx context.Context) domainCache.HealthStatus {
	return s.store.HealthCheck(ctx)
}
