package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"lingua-globe-service/internal/cluster"
	"lingua-globe-service/internal/model"
)

var (
	ErrLanguageNotFound = errors.New("language not found")
	// ErrStorage marks failures of the backing store rather than of the input.
	ErrStorage = errors.New("catalog storage error")
)

// SuggestionLimit caps the search dropdown.
const SuggestionLimit = 8

type Catalog interface {
	ImportFromReader(ctx context.Context, r io.Reader, format Format) (int, error)
	List(ctx context.Context) ([]model.Language, error)
	Get(ctx context.Context, id string) (model.Language, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]model.Language, error)
	Export(ctx context.Context, w io.Writer) error
	GetImportStatus() string
	Clear(ctx context.Context) error
}

// Archive sorts languages by name and keeps those whose name contains
// query, ignoring case.
func Archive(languages []model.Language, query string) []model.Language {
	sorted := make([]model.Language, len(languages))
	copy(sorted, languages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return sorted
	}
	filtered := make([]model.Language, 0)
	for _, l := range sorted {
		if strings.Contains(strings.ToLower(l.Name), q) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// PickRandom returns one language chosen by intn, which must return a value
// in [0, n) like rand.IntN.
func PickRandom(languages []model.Language, intn func(n int) int) (model.Language, error) {
	if len(languages) == 0 {
		return model.Language{}, fmt.Errorf("%w: catalog is empty", ErrLanguageNotFound)
	}
	return languages[intn(len(languages))], nil
}

func searchLanguages(languages []model.Language, query string, limit int) []model.Language {
	matches := cluster.MatchLanguages(languages, query)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// mergeLanguages replaces records that share an id and appends new ones,
// keeping first-insertion order.
func mergeLanguages(existing, incoming []model.Language) []model.Language {
	index := make(map[string]int, len(existing))
	merged := make([]model.Language, len(existing), len(existing)+len(incoming))
	copy(merged, existing)
	for i, l := range merged {
		index[l.ID] = i
	}
	for _, l := range incoming {
		if i, ok := index[l.ID]; ok {
			merged[i] = l
			continue
		}
		index[l.ID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}
