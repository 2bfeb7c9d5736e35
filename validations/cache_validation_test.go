package validations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainCache "github.com/playlytics/cachecore/domains/cache"
)

func TestValidateInvalidateWorkspace(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateInvalidateWorkspace(ctx, domainCache.InvalidateWorkspaceRequest{WorkspaceID: 1}))
	assert.Error(t, ValidateInvalidateWorkspace(ctx, domainCache.InvalidateWorkspaceRequest{}))
	assert.Error(t, ValidateInvalidateWorkspace(ctx, domainCache.InvalidateWorkspaceRequest{WorkspaceID: -3}))
}

func TestValidateInvalidateGateway(t *testing.T) {
	ctx := context.Background()
	gatewayID := 2

	assert.NoError(t, ValidateInvalidateGateway(ctx, domainCache.InvalidateGatewayRequest{WorkspaceID: 1, GatewayID: &gatewayID}))
	assert.NoError(t, ValidateInvalidateGateway(ctx, domainCache.InvalidateGatewayRequest{WorkspaceID: 1}))
	assert.Error(t, ValidateInvalidateGateway(ctx, domainCache.InvalidateGatewayRequest{GatewayID: &gatewayID}))
}

func TestValidateInvalidatePattern(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateInvalidatePattern(ctx, domainCache.InvalidatePatternRequest{Pattern: "player_features:*"}))
	assert.Error(t, ValidateInvalidatePattern(ctx, domainCache.InvalidatePatternRequest{}))
}

func TestValidateClearGroup(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, ValidateClearGroup(ctx, domainCache.ClearGroupRequest{Group: "microtendencias"}))
	assert.Error(t, ValidateClearGroup(ctx, domainCache.ClearGroupRequest{}))
}
