package repository

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	domainCache "github.com/playlytics/cachecore/domains/cache"
)

// MemoryStore implements Store with an in-process map. It is the default
// backend for local development and tests; data is lost on restart.
//
// Expiration is enforced lazily against the injected clock, which lets tests
// fast-forward time instead of sleeping.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	clock   func() time.Time
	started time.Time

	hits    int64
	misses  int64
	failing bool
}

type memoryEntry struct {
	data     []byte
	expireAt time.Time
}

// NewMemoryStore creates an in-memory store on the real clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an in-memory store whose expiration checks
// use the given clock.
func NewMemoryStoreWithClock(clock func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		clock:   clock,
		started: clock(),
	}
}

// SetFailing switches the store into a mode where every operation behaves as
// if the backend were unreachable. Used to exercise degraded paths.
func (ms *MemoryStore) SetFailing(failing bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failing = failing
}

func (ms *MemoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("[CACHE-SET] failed to serialize value")
		return false
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.failing {
		return false
	}

	ms.entries[key] = &memoryEntry{
		data:     data,
		expireAt: ms.clock().Add(ttl),
	}
	return true
}

func (ms *MemoryStore) Get(ctx context.Context, key string) (any, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.failing {
		return nil, false
	}

	e, ok := ms.entries[key]
	if !ok || ms.clock().After(e.expireAt) {
		ms.misses++
		return nil, false
	}

	var value any
	if err := json.Unmarshal(e.data, &value); err != nil {
		logrus.WithError(err).WithField("key", key).Error("[CACHE-GET] failed to decode cached value")
		ms.misses++
		return nil, false
	}

	ms.hits++
	return value, true
}

func (ms *MemoryStore) DeleteMatching(ctx context.Context, pattern string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.failing {
		return 0
	}

	deleted := 0
	now := ms.clock()
	for key, e := range ms.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(ms.entries, key)
			if !now.After(e.expireAt) {
				deleted++
			}
		}
	}
	return deleted
}

func (ms *MemoryStore) FlushAll(ctx context.Context) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.failing {
		return false
	}

	ms.entries = make(map[string]*memoryEntry)
	return true
}

func (ms *MemoryStore) Stats(ctx context.Context, categories []string) domainCache.CacheStats {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.failing {
		return domainCache.CacheStats{Connected: false, Error: "store unavailable"}
	}

	now := ms.clock()
	var totalKeys, usedBytes int64
	keyCounts := make(map[string]int64, len(categories))
	for _, category := range categories {
		keyCounts[category] = 0
	}

	for key, e := range ms.entries {
		if now.After(e.expireAt) {
			continue
		}
		totalKeys++
		usedBytes += int64(len(e.data))
		for _, category := range categories {
			if matched, _ := path.Match(category+":*", key); matched {
				keyCounts[category]++
				break
			}
		}
	}

	return domainCache.CacheStats{
		Connected:     true,
		UsedMemory:    humanize.Bytes(uint64(usedBytes)),
		TotalKeys:     totalKeys,
		KeyCounts:     keyCounts,
		HitRate:       hitRate(ms.hits, ms.misses),
		UptimeSeconds: int64(now.Sub(ms.started).Seconds()),
	}
}

func (ms *MemoryStore) HealthCheck(ctx context.Context) domainCache.HealthStatus {
	now := time.Now().UTC()
	probe := map[string]any{"probe": true, "timestamp": now.Format(time.RFC3339Nano)}

	writeOK := ms.Set(ctx, healthProbeKey, probe, healthProbeTTL)

	var readOK bool
	if writeOK {
		value, ok := ms.Get(ctx, healthProbeKey)
		if ok {
			if m, isMap := value.(map[string]any); isMap {
				readOK = m["probe"] == true && m["timestamp"] == probe["timestamp"]
			}
		}
		ms.DeleteMatching(ctx, healthProbeKey)
	}

	status := domainCache.HealthStatus{
		Connected: writeOK,
		WriteOK:   writeOK,
		ReadOK:    readOK,
		Timestamp: now,
	}
	if writeOK && readOK {
		status.Status = domainCache.StatusHealthy
	} else {
		status.Status = domainCache.StatusUnhealthy
		status.Error = "store unavailable"
	}
	return status
}
