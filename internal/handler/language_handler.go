package handler

import (
	"errors"
	"math/rand"

	"github.com/gofiber/fiber/v2"

	"lingua-globe-service/internal/model"
	"lingua-globe-service/internal/service"
)

type LanguageHandler struct {
	catalog service.Catalog
	intn    func(n int) int
}

func NewLanguageHandler(catalog service.Catalog) *LanguageHandler {
	return &LanguageHandler{
		catalog: catalog,
		intn:    rand.Intn,
	}
}

// List returns every language in catalog order.
func (h *LanguageHandler) List(c *fiber.Ctx) error {
	languages, err := h.catalog.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": languages,
	})
}

// GetByID returns one language with its full details.
func (h *LanguageHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "language ID is required",
		})
	}

	lang, err := h.catalog.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrLanguageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Language not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": lang,
	})
}

// GetRandom returns one language picked at random.
func (h *LanguageHandler) GetRandom(c *fiber.Ctx) error {
	languages, err := h.catalog.List(c.Context())
	if err != nil {
		return err
	}

	lang, err := service.PickRandom(languages, h.intn)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": lang,
	})
}

// GetArchive lists languages alphabetically, filtered by name.
func (h *LanguageHandler) GetArchive(c *fiber.Ctx) error {
	languages, err := h.catalog.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	archive := service.Archive(languages, c.Query("search"))
	summaries := make([]model.LanguageSummary, len(archive))
	for i, l := range archive {
		summaries[i] = model.Summarize(l)
	}

	return c.JSON(fiber.Map{
		"data":  summaries,
		"total": len(summaries),
	})
}

// GetSuggestions handles name and family based search suggestions
func (h *LanguageHandler) GetSuggestions(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	matches, err := h.catalog.Search(c.Context(), query, service.SuggestionLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	suggestions := make([]model.LanguageSummary, len(matches))
	for i, l := range matches {
		suggestions[i] = model.Summarize(l)
	}

	return c.JSON(fiber.Map{
		"data": suggestions,
	})
}
