package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lingua-globe-service/internal/service"
)

// statusOf maps a handler error to the HTTP status it is answered with.
func statusOf(err error) int {
	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, service.ErrLanguageNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	// Return JSON response with error
	return c.Status(statusOf(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
