package handler

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lingua-globe-service/internal/cluster"
	"lingua-globe-service/internal/service"
)

type GlobeHandler struct {
	globeView       service.GlobeView
	catalog         service.Catalog
	defaultAltitude float64
}

func NewGlobeHandler(globeView service.GlobeView, catalog service.Catalog, defaultAltitude float64) *GlobeHandler {
	return &GlobeHandler{
		globeView:       globeView,
		catalog:         catalog,
		defaultAltitude: defaultAltitude,
	}
}

// altitude reads the "altitude" query, falling back to the configured default.
func (h *GlobeHandler) altitude(c *fiber.Ctx) (float64, error) {
	raw := c.Query("altitude")
	if raw == "" {
		return h.defaultAltitude, nil
	}
	alt, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(alt) || math.IsInf(alt, 0) || alt < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "altitude must be a non-negative number")
	}
	return alt, nil
}

func (h *GlobeHandler) view(c *fiber.Ctx) (service.ViewResult, float64, error) {
	alt, err := h.altitude(c)
	if err != nil {
		return service.ViewResult{}, 0, err
	}
	res, err := h.globeView.Points(c.Context(), service.ViewRequest{
		Altitude:   alt,
		LanguageID: c.Query("lang"),
		Query:      c.Query("q"),
	})
	if err != nil {
		return service.ViewResult{}, 0, err
	}
	return res, alt, nil
}

// GetPoints returns the points the globe should draw for a viewport.
func (h *GlobeHandler) GetPoints(c *fiber.Ctx) error {
	res, alt, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(service.ToPointsResponse(res, alt))
}

// GetPointsGeoJSON returns the same points as a GeoJSON FeatureCollection.
func (h *GlobeHandler) GetPointsGeoJSON(c *fiber.Ctx) error {
	res, _, err := h.view(c)
	if err != nil {
		return err
	}
	if err := c.JSON(service.ToFeatureCollection(res.Clusters)); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return nil
}

// GetLabels returns country labels for the filtered or searched languages.
func (h *GlobeHandler) GetLabels(c *fiber.Ctx) error {
	languages, err := h.catalog.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	mode := cluster.ResolveMode(c.Query("lang"), c.Query("q"))

	return c.JSON(fiber.Map{
		"mode": mode.Kind.String(),
		"data": cluster.Labels(languages, mode),
	})
}

// GetTier describes how the globe renders at an altitude.
func (h *GlobeHandler) GetTier(c *fiber.Ctx) error {
	alt, err := h.altitude(c)
	if err != nil {
		return err
	}
	tier := cluster.ZoomTierOf(alt)
	gridSize, err := cluster.GridSizeOf(tier)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"altitude":       alt,
		"tier":           tier.String(),
		"grid_size":      gridSize,
		"point_radius":   cluster.PointRadius(alt),
		"focus_altitude": cluster.FocusAltitude(alt),
	})
}
