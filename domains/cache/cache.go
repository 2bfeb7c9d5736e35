package cache

import (
	"context"
	"time"

	"github.com/playlytics/cachecore/pkg/cachekey"
)

// Cache categories. Each category groups values that share a TTL and a
// key-pattern convention.
const (
	CategoryPlayerFeatures           = "player_features"
	CategoryDashboardMetrics         = "dashboard_metrics"
	CategoryChurnPredictions         = "churn_predictions"
	CategoryPlayerTimeline           = "player_timeline"
	CategoryAggregatedData           = "aggregated_data"
	CategoryMLModels                 = "ml_models"
	CategoryChurnMetricsData         = "churn_metrics_data"
	CategoryRiskAlertsData           = "risk_alerts_data"
	CategorySegmentationData         = "segmentation_data"
	CategoryMicrotendenciasDashboard = "microtendencias_dashboard"
	CategoryDashboardSummary         = "dashboard_summary"
	CategoryGatewayPerformance       = "gateway_performance"
)

type CacheStats struct {
	Connected     bool             `json:"connected"`
	UsedMemory    string           `json:"used_memory"`
	TotalKeys     int64            `json:"total_keys"`
	KeyCounts     map[string]int64 `json:"key_counts"`
	HitRate       float64          `json:"hit_rate"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Error         string           `json:"error,omitempty"`
}

type HealthStatus struct {
	Status    string    `json:"status"` // "healthy" or "unhealthy"
	Connected bool      `json:"connected"`
	WriteOK   bool      `json:"write_ok"`
	ReadOK    bool      `json:"read_ok"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Table is the tabular value shape used by dashboard and timeline caches.
// It round-trips through JSON structurally (columns keep their order).
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ComputeFunc produces the value for a cache miss. Failures propagate
// unchanged through GetOrCompute; nothing is stored on failure.
type ComputeFunc func(ctx context.Context, params cachekey.Params) (any, error)

// ICacheUsecase is the read-through cache facade.
//
// GetOrCompute provides no single-flight guarantee: concurrent callers that
// miss on the same key all run their compute function and all write, last
// write wins. That is an accepted trade-off of this design, not a defect.
type ICacheUsecase interface {
	// Get returns the JSON-decoded cached value, or ok=false when the key
	// is absent, expired, or the backend/decoding failed.
	Get(ctx context.Context, key string) (any, bool)
	// Set stores value under key. A zero ttl uses the global default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	// GetOrCompute derives the key from (category, params), serves a hit,
	// or computes, stores with the category TTL when ttl is zero, and
	// returns the result. A failed store degrades to computed-but-uncached,
	// never to an error.
	GetOrCompute(ctx context.Context, category string, compute ComputeFunc, params cachekey.Params, ttl time.Duration) (any, error)
	// Cached wraps fn so every invocation goes through GetOrCompute.
	Cached(category string, ttl time.Duration, fn ComputeFunc) ComputeFunc

	Stats(ctx context.Context) CacheStats
	HealthCheck(ctx context.Context) HealthStatus
}

// IInvalidationUsecase expands coarse invalidation intents into the concrete
// key patterns to delete. All counts reflect successful deletions only; a
// failing pattern never aborts its siblings.
type IInvalidationUsecase interface {
	InvalidatePattern(ctx context.Context, pattern string) int
	InvalidateWorkspace(ctx context.Context, workspaceID int) int
	// InvalidateGateway has two explicit modes: with a gateway id it clears
	// only that gateway's keys; with gatewayID nil it clears the gateway
	// categories for every gateway of the workspace.
	InvalidateGateway(ctx context.Context, workspaceID int, gatewayID *int) int
	// ClearCategoryGroup clears a named family of categories, globally or
	// scoped to one workspace.
	ClearCategoryGroup(ctx context.Context, group string, workspaceID *int) int
	// FlushEverything empties the whole namespace across all tenants.
	// Administrative and irreversible.
	FlushEverything(ctx context.Context) bool
}
