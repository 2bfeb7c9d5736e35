package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	domainTimeline "github.com/playlytics/cachecore/domains/timeline"
	"github.com/playlytics/cachecore/pkg/cachekey"
)

type timelineService struct {
	cache  domainCache.ICacheUsecase
	source domainTimeline.TimelineSource
	policy domainCache.TTLPolicy
}

// NewTimelineService creates the batch timeline assembler.
func NewTimelineService(cache domainCache.ICacheUsecase, source domainTimeline.TimelineSource, policy domainCache.TTLPolicy) domainTimeline.ITimelineUsecase {
	return &timelineService{cache: cache, source: source, policy: policy}
}

// Assemble partitions the requested player ids into cache hits and misses,
// fetches all misses from the source in one batch call, caches each fetched
// timeline individually, and returns the merged set keyed by player id.
func (s *timelineService) Assemble(ctx context.Context, workspaceID int, playerIDs []string) (map[string]any, error) {
	keys := make(map[string]string, len(playerIDs))
	for _, playerID := range playerIDs {
		keys[playerID] = cachekey.Derive(domainCache.CategoryPlayerTimeline, cachekey.Params{
			"workspace_id": workspaceID,
			"player_id":    playerID,
		})
	}

	results := make(map[string]any, len(playerIDs))
	var missing []string
	for _, playerID := range playerIDs {
		if cached, ok := s.cache.Get(ctx, keys[playerID]); ok {
			results[playerID] = cached
		} else {
			missing = append(missing, playerID)
		}
	}

	logrus.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"hits":         len(results),
		"misses":       len(missing),
	}).Info("[CACHE] batch timeline lookup")

	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := s.source.FetchBatch(ctx, workspaceID, missing)
	if err != nil {
		return nil, err
	}

	ttl := s.policy.For(domainCache.CategoryPlayerTimeline)
	for playerID, timeline := range fetched {
		key, ok := keys[playerID]
		if !ok {
			// Source returned an id we never asked for; skip it.
			logrus.WithField("player_id", playerID).Warn("[CACHE] batch source returned unexpected id")
			continue
		}
		s.cache.Set(ctx, key, timeline, ttl)
		results[playerID] = timeline
	}

	return results, nil
}
