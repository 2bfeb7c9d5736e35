package rest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	domainCache "github.com/playlytics/cachecore/domains/cache"
	pkgError "github.com/playlytics/cachecore/pkg/error"
	"github.com/playlytics/cachecore/pkg/utils"
	"github.com/playlytics/cachecore/validations"
)

type Cache struct {
	Service      domainCache.ICacheUsecase
	Invalidation domainCache.IInvalidationUsecase
}

func InitRestCache(app fiber.Router, service domainCache.ICacheUsecase, invalidation domainCache.IInvalidationUsecase) Cache {
	rest := Cache{Service: service, Invalidation: invalidation}
	app.Get("/cache/stats", rest.GetStats)
	app.Get("/cache/health", rest.GetHealth)
	app.Post("/cache/clear", rest.FlushEverything)
	app.Post("/cache/invalidate", rest.InvalidatePattern)
	app.Post("/cache/groups/:group/clear", rest.ClearCategoryGroup)
	app.Post("/workspaces/:workspaceId/cache/clear", rest.InvalidateWorkspace)
	app.Post("/workspaces/:workspaceId/gateways/cache/clear", rest.InvalidateAllGateways)
	app.Post("/workspaces/:workspaceId/gateways/:gatewayId/cache/clear", rest.InvalidateGateway)

	return rest
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats := handler.Service.Stats(c.UserContext())

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: stats,
	})
}

func (handler *Cache) GetHealth(c *fiber.Ctx) error {
	health := handler.Service.HealthCheck(c.UserContext())

	status := 200
	if health.Status != domainCache.StatusHealthy {
		status = 503
	}

	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    "SUCCESS",
		Message: "Cache health retrieved",
		Results: health,
	})
}

func (handler *Cache) FlushEverything(c *fiber.Ctx) error {
	ok := handler.Invalidation.FlushEverything(c.UserContext())
	if !ok {
		return c.Status(502).JSON(utils.ResponseData{
			Status:  502,
			Code:    "BACKEND_ERROR",
			Message: "Cache flush was not acknowledged",
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "All cache data cleared",
	})
}

func (handler *Cache) InvalidatePattern(c *fiber.Ctx) error {
	var request domainCache.InvalidatePatternRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	err = validations.ValidateInvalidatePattern(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	deleted := handler.Invalidation.InvalidatePattern(c.UserContext(), request.Pattern)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Pattern invalidated",
		Results: fiber.Map{"deleted": deleted},
	})
}

func (handler *Cache) InvalidateWorkspace(c *fiber.Ctx) error {
	request := domainCache.InvalidateWorkspaceRequest{
		WorkspaceID: paramInt(c, "workspaceId"),
	}
	err := validations.ValidateInvalidateWorkspace(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	deleted := handler.Invalidation.InvalidateWorkspace(c.UserContext(), request.WorkspaceID)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Workspace cache cleared",
		Results: fiber.Map{"deleted": deleted},
	})
}

func (handler *Cache) InvalidateAllGateways(c *fiber.Ctx) error {
	request := domainCache.InvalidateGatewayRequest{
		WorkspaceID: paramInt(c, "workspaceId"),
	}
	err := validations.ValidateInvalidateGateway(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	deleted := handler.Invalidation.InvalidateGateway(c.UserContext(), request.WorkspaceID, nil)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "All gateway caches cleared for workspace",
		Results: fiber.Map{"deleted": deleted},
	})
}

func (handler *Cache) InvalidateGateway(c *fiber.Ctx) error {
	gatewayID := paramInt(c, "gatewayId")
	request := domainCache.InvalidateGatewayRequest{
		WorkspaceID: paramInt(c, "workspaceId"),
		GatewayID:   &gatewayID,
	}
	err := validations.ValidateInvalidateGateway(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	deleted := handler.Invalidation.InvalidateGateway(c.UserContext(), request.WorkspaceID, request.GatewayID)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Gateway cache cleared",
		Results: fiber.Map{"deleted": deleted},
	})
}

func (handler *Cache) ClearCategoryGroup(c *fiber.Ctx) error {
	request := domainCache.ClearGroupRequest{
		Group: c.Params("group"),
	}
	if raw := c.Query("workspace_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			utils.PanicIfNeeded(pkgError.ValidationError("workspace_id must be an integer"))
		}
		request.WorkspaceID = &id
	}

	err := validations.ValidateClearGroup(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	deleted := handler.Invalidation.ClearCategoryGroup(c.UserContext(), request.Group, request.WorkspaceID)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Category group cleared",
		Results: fiber.Map{"deleted": deleted},
	})
}

// paramInt reads a route parameter as int; malformed values become 0 and are
// rejected by validation.
func paramInt(c *fiber.Ctx, name string) int {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0
	}
	return n
}
