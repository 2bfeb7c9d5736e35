package cache

import "time"

// DefaultTTL is the global fallback for categories without an entry in the
// policy table.
const DefaultTTL = 300 * time.Second

// TTLPolicy maps categories to their default expiration. Immutable after
// construction; it must not change mid-request.
type TTLPolicy struct {
	table      map[string]time.Duration
	defaultTTL time.Duration
}

// NewTTLPolicy builds the standard policy table for the analytics categories.
func NewTTLPolicy() TTLPolicy {
	return TTLPolicy{
		table: map[string]time.Duration{
			CategoryPlayerFeatures:           900 * time.Second,
			CategoryDashboardMetrics:         600 * time.Second,
			CategoryChurnPredictions:         1800 * time.Second,
			CategoryPlayerTimeline:           3600 * time.Second,
			CategoryAggregatedData:           1800 * time.Second,
			CategoryMLModels:                 7200 * time.Second,
			CategoryChurnMetricsData:         900 * time.Second,
			CategoryRiskAlertsData:           600 * time.Second,
			CategorySegmentationData:         1800 * time.Second,
			CategoryMicrotendenciasDashboard: 300 * time.Second,
		},
		defaultTTL: DefaultTTL,
	}
}

// For returns the configured TTL for category, or the global default.
func (p TTLPolicy) For(category string) time.Duration {
	if ttl, ok := p.table[category]; ok {
		return ttl
	}
	return p.defaultTTL
}

// Default returns the global fallback TTL.
func (p TTLPolicy) Default() time.Duration {
	return p.defaultTTL
}

// Categories lists every category with an explicit TTL entry. Used by the
// stats endpoint to count keys per category.
func (p TTLPolicy) Categories() []string {
	names := make([]string, 0, len(p.table))
	for name := range p.table {
		names = append(names, name)
	}
	return names
}
