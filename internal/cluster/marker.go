package cluster

import (
	"fmt"
	"math"

	"lingua-globe-service/internal/model"
)

// Marker is one occurrence of a language at one point on the globe.
// Language is shared with the catalog snapshot and must not be mutated.
type Marker struct {
	Lat      float64
	Lng      float64
	Name     string
	Language *model.Language
}

// MarkersOf flattens languages into markers, languages in order and
// locations in order within each language.
func MarkersOf(languages []model.Language) []Marker {
	n := 0
	for i := range languages {
		n += len(languages[i].Locations)
	}
	markers := make([]Marker, 0, n)
	for i := range languages {
		markers = append(markers, markersOfLanguage(&languages[i])...)
	}
	return markers
}

func markersOfLanguage(lang *model.Language) []Marker {
	markers := make([]Marker, len(lang.Locations))
	for i, loc := range lang.Locations {
		markers[i] = Marker{
			Lat:      loc.Lat,
			Lng:      loc.Lng,
			Name:     lang.PlaceName(i),
			Language: lang,
		}
	}
	return markers
}

func (m Marker) status() model.Status {
	if m.Language == nil {
		return ""
	}
	return m.Language.Status
}

func (m Marker) family() string {
	if m.Language == nil {
		return ""
	}
	return m.Language.Family
}

func (m Marker) validate() error {
	if math.IsNaN(m.Lat) || math.IsInf(m.Lat, 0) || math.IsNaN(m.Lng) || math.IsInf(m.Lng, 0) {
		return fmt.Errorf("%w: %q at (%v, %v)", ErrInvalidMarker, m.Name, m.Lat, m.Lng)
	}
	return nil
}
