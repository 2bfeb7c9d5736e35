package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	pkgError "github.com/playlytics/cachecore/pkg/error"
	"github.com/playlytics/cachecore/pkg/utils"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				var res utils.ResponseData
				res.Status = 500
				res.Code = "INTERNAL_SERVER_ERROR"
				res.Message = fmt.Sprintf("%v", err)

				logrus.Errorf("Panic recovered in middleware: %v", err)

				errTyped, isTyped := err.(pkgError.GenericError)
				if isTyped {
					res.Status = errTyped.StatusCode()
					res.Code = errTyped.ErrCode()
					res.Message = errTyped.Error()
				}

				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}
