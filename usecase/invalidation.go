package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	"github.com/playlytics/cachecore/pkg/cachekey"
	"github.com/playlytics/cachecore/repository"
)

// workspaceCategories are the tenant-scoped categories cleared by a
// workspace-wide invalidation. Maintained here and nowhere else.
var workspaceCategories = []string{
	domainCache.CategoryPlayerFeatures,
	domainCache.CategoryDashboardMetrics,
	domainCache.CategoryChurnPredictions,
	domainCache.CategoryPlayerTimeline,
	domainCache.CategoryAggregatedData,
	domainCache.CategoryMicrotendenciasDashboard,
	domainCache.CategoryDashboardSummary,
}

// gatewayCategories are the categories carrying per-gateway data.
var gatewayCategories = []string{
	domainCache.CategoryDashboardSummary,
	domainCache.CategoryMicrotendenciasDashboard,
	domainCache.CategoryGatewayPerformance,
}

// categoryGroups names families of related categories for bulk clearing.
var categoryGroups = map[string][]string{
	"microtendencias": {
		domainCache.CategoryMicrotendenciasDashboard,
		domainCache.CategoryDashboardSummary,
		"microtendencias_trends",
		"microtendencias_gateway_performance",
	},
}

type invalidationService struct {
	store repository.Store
}

// NewInvalidationService creates the invalidation planner over the store.
func NewInvalidationService(store repository.Store) domainCache.IInvalidationUsecase {
	return &invalidationService{store: store}
}

func (s *invalidationService) InvalidatePattern(ctx context.Context, pattern string) int {
	return s.store.DeleteMatching(ctx, pattern)
}

// InvalidateWorkspace removes every tenant-scoped cache entry of a
// workspace. One failing pattern does not abort the rest; the count sums
// successful deletions only.
func (s *invalidationService) InvalidateWorkspace(ctx context.Context, workspaceID int) int {
	total := 0
	for _, category := range workspaceCategories {
		total += s.InvalidatePattern(ctx, workspacePattern(category, workspaceID))
	}

	logrus.WithFields(logrus.Fields{"workspace_id": workspaceID, "deleted": total}).Info("[CACHE-INVALIDATE] workspace cache cleared")
	return total
}

// InvalidateGateway clears the gateway categories for a workspace. With a
// gateway id only that gateway's keys are removed; with gatewayID nil the
// scope widens to every gateway of the workspace. The nil case changes
// scope, not just the pattern argument.
func (s *invalidationService) InvalidateGateway(ctx context.Context, workspaceID int, gatewayID *int) int {
	patterns := make([]string, 0, len(gatewayCategories))
	if gatewayID != nil {
		for _, category := range gatewayCategories {
			patterns = append(patterns, gatewayPattern(category, workspaceID, *gatewayID))
		}
		logrus.WithFields(logrus.Fields{"workspace_id": workspaceID, "gateway_id": *gatewayID}).Info("[CACHE-INVALIDATE] clearing gateway cache")
	} else {
		for _, category := range gatewayCategories {
			patterns = append(patterns, workspacePattern(category, workspaceID))
		}
		logrus.WithField("workspace_id", workspaceID).Info("[CACHE-INVALIDATE] clearing ALL gateway caches for workspace")
	}

	total := 0
	for _, pattern := range patterns {
		deleted := s.InvalidatePattern(ctx, pattern)
		total += deleted
		logrus.WithFields(logrus.Fields{"pattern": pattern, "deleted": deleted}).Debug("[CACHE-INVALIDATE] pattern cleared")
	}

	logrus.WithField("deleted", total).Info("[CACHE-INVALIDATE] gateway invalidation done")
	return total
}

// ClearCategoryGroup clears a named family of categories, either globally or
// scoped to one workspace. Unknown group names clear nothing.
func (s *invalidationService) ClearCategoryGroup(ctx context.Context, group string, workspaceID *int) int {
	categories, ok := categoryGroups[group]
	if !ok {
		logrus.WithField("group", group).Warn("[CACHE-CLEAR] unknown category group")
		return 0
	}

	total := 0
	for _, category := range categories {
		pattern := category + ":*"
		if workspaceID != nil {
			pattern = workspacePattern(category, *workspaceID)
		}
		total += s.InvalidatePattern(ctx, pattern)
	}

	logrus.WithFields(logrus.Fields{"group": group, "deleted": total}).Info("[CACHE-CLEAR] category group cleared")
	return total
}

func (s *invalidationService) FlushEverything(ctx context.Context) bool {
	return s.store.FlushAll(ctx)
}

// Patterns embed the literal scope tokens the key codec writes, delimited
// with "|" so the glob can never match inside another id or a digest.
func workspacePattern(category string, workspaceID int) string {
	return fmt.Sprintf("%s:*%s|%d|*", category, cachekey.ParamWorkspaceID, workspaceID)
}

func gatewayPattern(category string, workspaceID, gatewayID int) string {
	return fmt.Sprintf("%s:*%s|%d|*%s|%d|*", category, cachekey.ParamWorkspaceID, workspaceID, cachekey.ParamGatewayID, gatewayID)
}
