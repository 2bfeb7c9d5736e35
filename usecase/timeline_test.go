package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	"github.com/playlytics/cachecore/pkg/cachekey"
	"github.com/playlytics/cachecore/repository"
)

type fakeTimelineSource struct {
	calls     int
	requested [][]string
	data      map[string]any
	err       error
}

func (f *fakeTimelineSource) FetchBatch(ctx context.Context, workspaceID int, playerIDs []string) (map[string]any, error) {
	f.calls++
	f.requested = append(f.requested, playerIDs)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]any, len(playerIDs))
	for _, id := range playerIDs {
		out[id] = f.data[id]
	}
	return out, nil
}

func timelineKey(workspaceID int, playerID string) string {
	return cachekey.Derive(domainCache.CategoryPlayerTimeline, cachekey.Params{
		"workspace_id": workspaceID,
		"player_id":    playerID,
	})
}

func TestAssembleCompleteness(t *testing.T) {
	store := repository.NewMemoryStore()
	cacheSvc := NewCacheService(store, domainCache.NewTTLPolicy())
	ctx := context.Background()

	// Pre-cache 2 of the 5 requested players.
	cacheSvc.Set(ctx, timelineKey(1, "p1"), map[string]any{"cached": true}, 0)
	cacheSvc.Set(ctx, timelineKey(1, "p4"), map[string]any{"cached": true}, 0)

	source := &fakeTimelineSource{data: map[string]any{
		"p2": map[string]any{"fetched": true},
		"p3": map[string]any{"fetched": true},
		"p5": map[string]any{"fetched": true},
	}}
	svc := NewTimelineService(cacheSvc, source, domainCache.NewTTLPolicy())

	result, err := svc.Assemble(ctx, 1, []string{"p1", "p2", "p3", "p4", "p5"})
	require.NoError(t, err)

	assert.Len(t, result, 5)
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		assert.Contains(t, result, id)
	}

	require.Equal(t, 1, source.calls, "misses must be fetched in one batch call")
	assert.Equal(t, []string{"p2", "p3", "p5"}, source.requested[0])

	// The fetched timelines are now cached under their derived keys.
	for _, id := range []string{"p2", "p3", "p5"} {
		_, ok := cacheSvc.Get(ctx, timelineKey(1, id))
		assert.True(t, ok, "player %s must be cached after assembly", id)
	}
}

func TestAssembleAllHitsSkipsSource(t *testing.T) {
	store := repository.NewMemoryStore()
	cacheSvc := NewCacheService(store, domainCache.NewTTLPolicy())
	ctx := context.Background()

	cacheSvc.Set(ctx, timelineKey(1, "p1"), "t1", 0)
	cacheSvc.Set(ctx, timelineKey(1, "p2"), "t2", 0)

	source := &fakeTimelineSource{}
	svc := NewTimelineService(cacheSvc, source, domainCache.NewTTLPolicy())

	result, err := svc.Assemble(ctx, 1, []string{"p1", "p2"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"p1": "t1", "p2": "t2"}, result)
	assert.Equal(t, 0, source.calls)
}

func TestAssemblePropagatesSourceFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	cacheSvc := NewCacheService(store, domainCache.NewTTLPolicy())

	sourceErr := errors.New("database unavailable")
	source := &fakeTimelineSource{err: sourceErr}
	svc := NewTimelineService(cacheSvc, source, domainCache.NewTTLPolicy())

	_, err := svc.Assemble(context.Background(), 1, []string{"p1"})
	assert.ErrorIs(t, err, sourceErr)
}

func TestAssembleWorkspacesDoNotShareTimelines(t *testing.T) {
	store := repository.NewMemoryStore()
	cacheSvc := NewCacheService(store, domainCache.NewTTLPolicy())
	ctx := context.Background()

	cacheSvc.Set(ctx, timelineKey(1, "p1"), "workspace-1-data", 0)

	source := &fakeTimelineSource{data: map[string]any{"p1": "workspace-2-data"}}
	svc := NewTimelineService(cacheSvc, source, domainCache.NewTTLPolicy())

	result, err := svc.Assemble(ctx, 2, []string{"p1"})
	require.NoError(t, err)

	assert.Equal(t, "workspace-2-data", result["p1"])
	assert.Equal(t, 1, source.calls, "a different workspace must miss")
}
