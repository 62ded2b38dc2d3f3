package model

// MarkerResponse is one (language, location) pair as the globe sees it.
type MarkerResponse struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	LanguageID string  `json:"language_id"`
	Language   string  `json:"language"`
	Family     string  `json:"family"`
	Status     Status  `json:"status"`
}

type StatusCount struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Count  int    `json:"count"`
}

// PointResponse is a renderable point: a cluster or a single marker.
type PointResponse struct {
	Lat            float64          `json:"lat"`
	Lng            float64          `json:"lng"`
	Count          int              `json:"count"`
	IsSingle       bool             `json:"is_single"`
	DominantStatus Status           `json:"dominant_status"`
	DominantFamily string           `json:"dominant_family"`
	Color          string           `json:"color"`
	Label          string           `json:"label"`
	Breakdown      []StatusCount    `json:"breakdown,omitempty"`
	Markers        []MarkerResponse `json:"markers"`
}

type PointsResponse struct {
	Mode          string          `json:"mode"`
	Tier          string          `json:"tier"`
	GridSize      float64         `json:"grid_size"`
	PointRadius   float64         `json:"point_radius"`
	FocusAltitude float64         `json:"focus_altitude"`
	Points        []PointResponse `json:"points"`
}

type CountryLabel struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

type LanguageSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Family    string `json:"family"`
	Status    Status `json:"status"`
	Countries int    `json:"countries"`
}

func Summarize(l Language) LanguageSummary {
	return LanguageSummary{
		ID:        l.ID,
		Name:      l.Name,
		Family:    l.Family,
		Status:    l.Status,
		Countries: len(l.Countries),
	}
}
