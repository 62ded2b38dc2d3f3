package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lingua-globe-service/internal/model"
	"lingua-globe-service/internal/service"
)

type RequestHandler struct {
	store service.RequestStore
}

func NewRequestHandler(store service.RequestStore) *RequestHandler {
	return &RequestHandler{
		store: store,
	}
}

// Submit queues a visitor's language suggestion.
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var req model.LanguageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}

	saved, err := h.store.Submit(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrStorage) {
			return err
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Request received",
		"data":    saved,
	})
}

// List returns every queued suggestion, oldest first.
func (h *RequestHandler) List(c *fiber.Ctx) error {
	requests, err := h.store.List(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":  requests,
		"total": len(requests),
	})
}
