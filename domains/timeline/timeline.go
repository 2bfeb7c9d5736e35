package timeline

import "context"

// TimelineSource is the external data source that computes player timelines.
// FetchBatch must return one entry per requested player id, in a single
// round trip.
type TimelineSource interface {
	FetchBatch(ctx context.Context, workspaceID int, playerIDs []string) (map[string]any, error)
}

// ITimelineUsecase assembles player timelines from cache hits plus one batch
// fetch for the misses.
type ITimelineUsecase interface {
	// Assemble returns exactly one entry per requested player id. Cached
	// timelines are served from the cache; the rest are fetched from the
	// source in one batch call and stored individually.
	Assemble(ctx context.Context, workspaceID int, playerIDs []string) (map[string]any, error)
}
