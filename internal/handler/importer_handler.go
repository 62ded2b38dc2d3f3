package handler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"lingua-globe-service/internal/metrics"
	"lingua-globe-service/internal/service"
)

type ImportHandler struct {
	catalog service.Catalog
	metrics *metrics.Registry
}

func NewImportHandler(catalog service.Catalog, registry *metrics.Registry) *ImportHandler {
	return &ImportHandler{
		catalog: catalog,
		metrics: registry,
	}
}

// ImportLanguages accepts a multipart "file" upload, or the raw request body
// with the format taken from the "format" query ("json", "yaml", "json.zst").
func (h *ImportHandler) ImportLanguages(c *fiber.Ctx) error {
	var (
		count int
		err   error
	)

	if file, ferr := c.FormFile("file"); ferr == nil {
		uploadedFile, oerr := file.Open()
		if oerr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to open uploaded file: " + oerr.Error(),
			})
		}
		defer uploadedFile.Close()

		// Use a buffered reader
		reader := bufio.NewReaderSize(uploadedFile, 1024*1024) // 1MB buffer
		count, err = h.catalog.ImportFromReader(c.Context(), reader, service.FormatFromName(file.Filename))
	} else {
		body := c.Body()
		if len(body) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No file uploaded and empty request body",
			})
		}
		format := service.FormatFromName("upload." + c.Query("format", "json"))
		count, err = h.catalog.ImportFromReader(c.Context(), bytes.NewReader(body), format)
	}

	if err != nil {
		h.metrics.RecordImport("error")
		code := fiber.StatusBadRequest
		if errors.Is(err, service.ErrStorage) {
			code = fiber.StatusInternalServerError
		}
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	h.metrics.RecordImport("ok")

	return c.JSON(fiber.Map{
		"message":  "Import completed successfully",
		"imported": count,
	})
}

func (h *ImportHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": h.catalog.GetImportStatus(),
	})
}

func (h *ImportHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.catalog.Export(c.Context(), &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/zstd")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="languages.json.zst"`)
	return c.Send(buf.Bytes())
}

func (h *ImportHandler) DeleteLanguage(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.catalog.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrLanguageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Language not found",
			})
		}
		return fmt.Errorf("failed to delete language %s: %w", id, err)
	}
	h.metrics.RecordDelete()

	return c.JSON(fiber.Map{
		"message": "Language deleted successfully",
	})
}

func (h *ImportHandler) ClearDatabase(c *fiber.Ctx) error {
	if err := h.catalog.Clear(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Catalog cleared successfully",
	})
}
