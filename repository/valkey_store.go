package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	"github.com/playlytics/cachecore/infrastructure/valkey"
)

// healthProbeKey is reserved for the health check round trip. No category
// uses this prefix.
const (
	healthProbeKey = "health_check_probe"
	healthProbeTTL = 60 * time.Second
)

// ValkeyStore implements Store on a Valkey/Redis backend. Values are stored
// as JSON blobs; every transport or codec failure is absorbed here and
// logged, so the read path stays total for callers.
type ValkeyStore struct {
	client *valkey.Client
}

// NewValkeyStore creates a store over an already-connected client.
// The client should be created via valkey.NewClient and passed here.
func NewValkeyStore(client *valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func (s *ValkeyStore) inner() valkeylib.Client {
	return s.client.Inner()
}

// Set stores value under key with the given TTL, overwriting unconditionally.
func (s *ValkeyStore) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("[CACHE-SET] failed to serialize value")
		return false
	}

	cmd := s.inner().B().Set().
		Key(s.client.Key(key)).
		Value(string(data)).
		Ex(ttl).
		Build()

	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("[CACHE-SET] failed to store value")
		return false
	}

	logrus.WithFields(logrus.Fields{"key": key, "ttl": ttl}).Debug("[CACHE-SET] stored")
	return true
}

// Get fetches the value under key. Missing keys and undecodable payloads
// both report ok=false; the latter is logged.
func (s *ValkeyStore) Get(ctx context.Context, key string) (any, bool) {
	cmd := s.inner().B().Get().Key(s.client.Key(key)).Build()

	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			logrus.WithField("key", key).Debug("[CACHE-MISS] no cached data")
		} else {
			logrus.WithError(err).WithField("key", key).Error("[CACHE-GET] backend error")
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		logrus.WithError(err).WithField("key", key).Error("[CACHE-GET] failed to decode cached value")
		return nil, false
	}

	logrus.WithField("key", key).Debug("[CACHE-HIT] found cached data")
	return value, true
}

// DeleteMatching enumerates keys matching pattern and deletes them.
func (s *ValkeyStore) DeleteMatching(ctx context.Context, pattern string) int {
	keys, err := s.client.Scan(ctx, pattern)
	if err != nil {
		logrus.WithError(err).WithField("pattern", pattern).Error("[CACHE-INVALIDATE] scan failed")
		return 0
	}
	if len(keys) == 0 {
		return 0
	}

	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = s.client.Key(k)
	}

	cmd := s.inner().B().Del().Key(fullKeys...).Build()
	deleted, err := s.inner().Do(ctx, cmd).AsInt64()
	if err != nil {
		logrus.WithError(err).WithField("pattern", pattern).Error("[CACHE-INVALIDATE] delete failed")
		return 0
	}

	logrus.WithFields(logrus.Fields{"pattern": pattern, "deleted": deleted}).Info("[CACHE-INVALIDATE] keys removed")
	return int(deleted)
}

// FlushAll empties the active database. Destructive and unscoped.
func (s *ValkeyStore) FlushAll(ctx context.Context) bool {
	logrus.Warn("[CACHE-FLUSH] clearing ALL cache data")

	cmd := s.inner().B().Flushdb().Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		logrus.WithError(err).Error("[CACHE-FLUSH] failed to clear cache")
		return false
	}

	logrus.Warn("[CACHE-FLUSH] all cache data cleared")
	return true
}

// Stats reports server metrics plus per-category key counts. On any failure
// it reports connected=false with the error instead of raising.
func (s *ValkeyStore) Stats(ctx context.Context, categories []string) domainCache.CacheStats {
	cmd := s.inner().B().Info().Build()
	raw, err := s.inner().Do(ctx, cmd).ToString()
	if err != nil {
		logrus.WithError(err).Error("[CACHE-STATS] failed to read server info")
		return domainCache.CacheStats{Connected: false, Error: err.Error()}
	}

	info := parseInfo(raw)

	keyCounts := make(map[string]int64, len(categories))
	for _, category := range categories {
		keys, err := s.client.Scan(ctx, category+":*")
		if err != nil {
			logrus.WithError(err).WithField("category", category).Error("[CACHE-STATS] key count failed")
			continue
		}
		keyCounts[category] = int64(len(keys))
	}

	return domainCache.CacheStats{
		Connected:     true,
		UsedMemory:    info.usedMemory,
		TotalKeys:     info.totalKeys,
		KeyCounts:     keyCounts,
		HitRate:       hitRate(info.hits, info.misses),
		UptimeSeconds: info.uptimeSeconds,
	}
}

// HealthCheck writes a probe value, reads it back, compares byte-for-byte
// and deletes the probe. Healthy only when both write and read succeed and
// the payload round-trips intact.
func (s *ValkeyStore) HealthCheck(ctx context.Context) domainCache.HealthStatus {
	now := time.Now().UTC()
	probe, err := json.Marshal(map[string]any{"probe": true, "timestamp": now.Format(time.RFC3339Nano)})
	if err != nil {
		return domainCache.HealthStatus{
			Status: domainCache.StatusUnhealthy, Error: err.Error(), Timestamp: now,
		}
	}

	fullKey := s.client.Key(healthProbeKey)

	setCmd := s.inner().B().Set().Key(fullKey).Value(string(probe)).Ex(healthProbeTTL).Build()
	writeErr := s.inner().Do(ctx, setCmd).Error()

	var readOK bool
	if writeErr == nil {
		getCmd := s.inner().B().Get().Key(fullKey).Build()
		data, readErr := s.inner().Do(ctx, getCmd).AsBytes()
		readOK = readErr == nil && bytes.Equal(data, probe)

		delCmd := s.inner().B().Del().Key(fullKey).Build()
		_ = s.inner().Do(ctx, delCmd).Error()
	}

	status := domainCache.HealthStatus{
		Connected: writeErr == nil,
		WriteOK:   writeErr == nil,
		ReadOK:    readOK,
		Timestamp: now,
	}
	if status.WriteOK && status.ReadOK {
		status.Status = domainCache.StatusHealthy
	} else {
		status.Status = domainCache.StatusUnhealthy
		if writeErr != nil {
			status.Error = writeErr.Error()
		}
		logrus.WithField("error", status.Error).Warn("[CACHE-HEALTH] probe failed")
	}
	return status
}

type serverInfo struct {
	usedMemory    string
	totalKeys     int64
	hits          int64
	misses        int64
	uptimeSeconds int64
}

// parseInfo extracts the fields we report from the INFO text format
// ("field:value" lines, keyspace lines as "db0:keys=N,expires=M,...").
func parseInfo(raw string) serverInfo {
	info := serverInfo{usedMemory: "0B"}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		switch {
		case name == "used_memory_human":
			info.usedMemory = value
		case name == "keyspace_hits":
			info.hits, _ = strconv.ParseInt(value, 10, 64)
		case name == "keyspace_misses":
			info.misses, _ = strconv.ParseInt(value, 10, 64)
		case name == "uptime_in_seconds":
			info.uptimeSeconds, _ = strconv.ParseInt(value, 10, 64)
		case strings.HasPrefix(name, "db"):
			for _, field := range strings.Split(value, ",") {
				if n, ok := strings.CutPrefix(field, "keys="); ok {
					count, _ := strconv.ParseInt(n, 10, 64)
					info.totalKeys += count
				}
			}
		}
	}

	return info
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
