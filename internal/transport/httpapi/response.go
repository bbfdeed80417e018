package httpapi

import (
	"github.com/balejosg/whitelist-sub001/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Success writes the 200 success envelope.
func Success(c *fiber.Ctx, data any) error {
	return SuccessWithCode(c, fiber.StatusOK, data)
}

// SuccessWithCode writes the success envelope with a custom status,
// e.g. 201 for created resources.
func SuccessWithCode(c *fiber.Ctx, code int, data any) error {
	return c.Status(code).JSON(fiber.Map{
		"code":   code,
		"status": "success",
		"data":   data,
	})
}

// Error writes the error envelope for a plain message.
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// FromError maps an engine error onto the wire. Tagged errors keep their
// code and details; anything else is an internal error and gets logged.
func FromError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	if e, ok := apperr.From(err); ok {
		return c.Status(e.Status).JSON(fiber.Map{
			"code":    e.Status,
			"status":  "error",
			"message": e.Message,
			"error": fiber.Map{
				"code":    e.Code,
				"details": e.Details,
			},
		})
	}

	logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return Error(c, fiber.StatusInternalServerError, "internal server error")
}

// ValidationError writes a 400 with a field -> failed-rule map.
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return Error(c, fiber.StatusBadRequest, "invalid input")
	}

	fields := make(map[string]string)
	for _, fieldErr := range ve {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    fiber.StatusBadRequest,
		"status":  "error",
		"message": "validation failed",
		"errors":  fields,
	})
}
