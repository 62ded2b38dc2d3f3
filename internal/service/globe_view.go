package service

import (
	"context"
	"fmt"
	"time"

	"lingua-globe-service/internal/cluster"
	"lingua-globe-service/internal/metrics"
	"lingua-globe-service/internal/model"
)

type ViewRequest struct {
	Altitude   float64
	LanguageID string
	Query      string
}

type ViewResult struct {
	Mode     cluster.DisplayMode
	Tier     cluster.Tier
	GridSize float64
	Clusters []cluster.Cluster
	Labels   []model.CountryLabel
}

type GlobeView interface {
	Points(ctx context.Context, req ViewRequest) (ViewResult, error)
}

type globeView struct {
	catalog Catalog
	metrics *metrics.Registry
}

func NewGlobeView(catalog Catalog, registry *metrics.Registry) GlobeView {
	return &globeView{
		catalog: catalog,
		metrics: registry,
	}
}

// Points loads a fresh catalog snapshot and selects what the globe should draw.
func (g *globeView) Points(ctx context.Context, req ViewRequest) (ViewResult, error) {
	languages, err := g.catalog.List(ctx)
	if err != nil {
		return ViewResult{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	g.metrics.SetCatalogSize(len(languages))

	mode := cluster.ResolveMode(req.LanguageID, req.Query)
	tier := cluster.ZoomTierOf(req.Altitude)
	gridSize, err := cluster.GridSizeOf(tier)
	if err != nil {
		return ViewResult{}, err
	}

	start := time.Now()
	clusters, err := cluster.SelectPoints(languages, req.Altitude, mode)
	if err != nil {
		g.metrics.RecordSelection(mode.Kind.String(), tier.String(), "error", time.Since(start), 0, 0)
		return ViewResult{}, fmt.Errorf("failed to select points: %w", err)
	}
	g.metrics.RecordSelection(mode.Kind.String(), tier.String(), "ok", time.Since(start), markerCount(clusters), len(clusters))

	return ViewResult{
		Mode:     mode,
		Tier:     tier,
		GridSize: gridSize,
		Clusters: clusters,
		Labels:   cluster.Labels(languages, mode),
	}, nil
}

func markerCount(clusters []cluster.Cluster) int {
	n := 0
	for _, c := range clusters {
		n += c.Count
	}
	return n
}

// ToPointResponse converts a cluster to the shape the globe renders.
func ToPointResponse(c cluster.Cluster) model.PointResponse {
	markers := make([]model.MarkerResponse, len(c.Markers))
	for i, m := range c.Markers {
		markers[i] = model.MarkerResponse{Name: m.Name, Lat: m.Lat, Lng: m.Lng}
		if m.Language != nil {
			markers[i].LanguageID = m.Language.ID
			markers[i].Language = m.Language.Name
			markers[i].Family = m.Language.Family
			markers[i].Status = m.Language.Status
		}
	}

	p := model.PointResponse{
		Lat:            c.Lat,
		Lng:            c.Lng,
		Count:          c.Count,
		IsSingle:       c.IsSingle,
		DominantStatus: c.DominantStatus,
		DominantFamily: c.DominantFamily,
		Color:          c.DominantStatus.Color(),
		Markers:        markers,
	}
	if c.IsSingle && len(markers) == 1 {
		p.Label = fmt.Sprintf("%s (%s) - %s", markers[0].Language, markers[0].Family, markers[0].Name)
		return p
	}

	p.Label = fmt.Sprintf("+%d languages", c.Count)
	for _, sc := range c.StatusBreakdown() {
		p.Breakdown = append(p.Breakdown, model.StatusCount{
			Status: sc.Status,
			Label:  sc.Status.Label(),
			Color:  sc.Status.Color(),
			Count:  sc.Count,
		})
	}
	return p
}

func ToPointsResponse(res ViewResult, altitude float64) model.PointsResponse {
	points := make([]model.PointResponse, len(res.Clusters))
	for i, c := range res.Clusters {
		points[i] = ToPointResponse(c)
	}
	return model.PointsResponse{
		Mode:          res.Mode.Kind.String(),
		Tier:          res.Tier.String(),
		GridSize:      res.GridSize,
		PointRadius:   cluster.PointRadius(altitude),
		FocusAltitude: cluster.FocusAltitude(altitude),
		Points:        points,
	}
}
