package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	pkgError "github.com/playlytics/cachecore/pkg/error"
)

func ValidateInvalidatePattern(ctx context.Context, request domainCache.InvalidatePatternRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Pattern, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateInvalidateWorkspace(ctx context.Context, request domainCache.InvalidateWorkspaceRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.WorkspaceID, validation.Required, validation.Min(1)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateInvalidateGateway(ctx context.Context, request domainCache.InvalidateGatewayRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.WorkspaceID, validation.Required, validation.Min(1)),
		validation.Field(&request.GatewayID, validation.Min(1)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateClearGroup(ctx context.Context, request domainCache.ClearGroupRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Group, validation.Required),
		validation.Field(&request.WorkspaceID, validation.Min(1)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
