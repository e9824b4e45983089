package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"employee-feedback/src/models"
	"employee-feedback/src/utils"
)

// ErrorHandler renders every error returned by a handler as an ErrorResponse.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		resp := models.ErrorResponse{Status: fiber.StatusInternalServerError, Error: "internal server error"}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			resp.Status = fiberErr.Code
			resp.Error = fiberErr.Message
		} else {
			appErr := utils.AsAppError(err)
			resp.Status = appErr.HTTPStatus()
			resp.Error = appErr.Message
			resp.Details = appErr.Details
		}

		if resp.Status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Any("requestId", c.Locals(RequestIDKey)),
				zap.Error(err),
			)
		}
		return c.Status(resp.Status).JSON(resp)
	}
}
