package cluster

import (
	"strings"

	"lingua-globe-service/internal/model"
)

type ModeKind int

const (
	ModeClustered ModeKind = iota
	ModeSingleLanguage
	ModeQuery
)

func (k ModeKind) String() string {
	switch k {
	case ModeSingleLanguage:
		return "language"
	case ModeQuery:
		return "query"
	default:
		return "clustered"
	}
}

// DisplayMode selects which point set the globe shows.
// LanguageID is set for ModeSingleLanguage, Query for ModeQuery.
type DisplayMode struct {
	Kind       ModeKind
	LanguageID string
	Query      string
}

// ResolveMode picks the display mode from the current filter and search box.
// A language filter takes precedence over the free-text query.
func ResolveMode(languageID, query string) DisplayMode {
	if id := strings.TrimSpace(languageID); id != "" {
		return DisplayMode{Kind: ModeSingleLanguage, LanguageID: id}
	}
	if q := strings.TrimSpace(query); q != "" {
		return DisplayMode{Kind: ModeQuery, Query: q}
	}
	return DisplayMode{Kind: ModeClustered}
}

// SelectPoints produces the clusters to render for a display mode.
func SelectPoints(languages []model.Language, altitude float64, mode DisplayMode) ([]Cluster, error) {
	switch mode.Kind {
	case ModeSingleLanguage:
		lang := FindLanguage(languages, mode.LanguageID)
		if lang == nil {
			return []Cluster{}, nil
		}
		return Singles(markersOfLanguage(lang)), nil
	case ModeQuery:
		matches := MatchLanguages(languages, mode.Query)
		return Singles(MarkersOf(matches)), nil
	default:
		gridSize, err := GridSizeOf(ZoomTierOf(altitude))
		if err != nil {
			return nil, err
		}
		return ClusterMarkers(MarkersOf(languages), gridSize)
	}
}

func FindLanguage(languages []model.Language, id string) *model.Language {
	for i := range languages {
		if languages[i].ID == id {
			return &languages[i]
		}
	}
	return nil
}

// MatchLanguages returns the languages whose name or family contains query,
// ignoring case, in catalog order.
func MatchLanguages(languages []model.Language, query string) []model.Language {
	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]model.Language, 0)
	if q == "" {
		return matches
	}
	for _, l := range languages {
		if strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Family), q) {
			matches = append(matches, l)
		}
	}
	return matches
}

// Labels returns the country labels shown next to filtered or searched
// languages. Clustered mode has no labels.
func Labels(languages []model.Language, mode DisplayMode) []model.CountryLabel {
	var targets []model.Language
	switch mode.Kind {
	case ModeSingleLanguage:
		if lang := FindLanguage(languages, mode.LanguageID); lang != nil {
			targets = []model.Language{*lang}
		}
	case ModeQuery:
		targets = MatchLanguages(languages, mode.Query)
	}
	labels := make([]model.CountryLabel, 0)
	for _, m := range MarkersOf(targets) {
		labels = append(labels, model.CountryLabel{Lat: m.Lat, Lng: m.Lng, Label: m.Name})
	}
	return labels
}
