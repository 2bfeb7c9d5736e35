package rest

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	"github.com/playlytics/cachecore/pkg/cachekey"
	"github.com/playlytics/cachecore/repository"
	"github.com/playlytics/cachecore/ui/rest/middleware"
	"github.com/playlytics/cachecore/usecase"
)

func setupTestApp(t *testing.T) (*fiber.App, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	policy := domainCache.NewTTLPolicy()
	cacheSvc := usecase.NewCacheService(store, policy)
	invalidationSvc := usecase.NewInvalidationService(store)

	app := fiber.New()
	app.Use(middleware.Recovery())
	InitRestCache(app, cacheSvc, invalidationSvc)

	return app, store
}

func TestGetStatsEndpoint(t *testing.T) {
	app, store := setupTestApp(t)
	store.Set(context.Background(), "player_features:abc", 1, time.Minute)

	resp, err := app.Test(httptest.NewRequest("GET", "/cache/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Results domainCache.CacheStats `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Results.Connected)
	assert.Equal(t, int64(1), body.Results.TotalKeys)
}

func TestGetHealthEndpoint(t *testing.T) {
	app, store := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/cache/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	store.SetFailing(true)
	resp, err = app.Test(httptest.NewRequest("GET", "/cache/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestInvalidateWorkspaceEndpoint(t *testing.T) {
	app, store := setupTestApp(t)
	ctx := context.Background()

	key := cachekey.Derive(domainCache.CategoryPlayerFeatures, cachekey.Params{"workspace_id": 7, "cpf": "x"})
	store.Set(ctx, key, "v", time.Minute)

	resp, err := app.Test(httptest.NewRequest("POST", "/workspaces/7/cache/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, ok := store.Get(ctx, key)
	assert.False(t, ok)
}

func TestInvalidateWorkspaceRejectsBadID(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/workspaces/abc/cache/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGatewayEndpointsTwoModes(t *testing.T) {
	app, store := setupTestApp(t)
	ctx := context.Background()

	gw1 := cachekey.Derive(domainCache.CategoryDashboardSummary, cachekey.Params{"workspace_id": 1, "gateway_id": 1})
	gw2 := cachekey.Derive(domainCache.CategoryDashboardSummary, cachekey.Params{"workspace_id": 1, "gateway_id": 2})
	store.Set(ctx, gw1, "a", time.Minute)
	store.Set(ctx, gw2, "b", time.Minute)

	// Scoped mode leaves the sibling gateway alone.
	resp, err := app.Test(httptest.NewRequest("POST", "/workspaces/1/gateways/1/cache/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, ok := store.Get(ctx, gw1)
	assert.False(t, ok)
	_, ok = store.Get(ctx, gw2)
	assert.True(t, ok)

	// Workspace-wide mode clears the rest.
	resp, err = app.Test(httptest.NewRequest("POST", "/workspaces/1/gateways/cache/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, ok = store.Get(ctx, gw2)
	assert.False(t, ok)
}

func TestFlushEndpoint(t *testing.T) {
	app, store := setupTestApp(t)
	ctx := context.Background()
	store.Set(ctx, "churn_predictions:abc", "v", time.Minute)

	resp, err := app.Test(httptest.NewRequest("POST", "/cache/clear", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, ok := store.Get(ctx, "churn_predictions:abc")
	assert.False(t, ok)
}
