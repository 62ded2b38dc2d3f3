package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"lingua-globe-service/internal/model"
)

type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingYAML
)

// Format describes an import payload: its encoding and whether it is
// wrapped in a zstd frame.
type Format struct {
	Encoding   Encoding
	Compressed bool
}

// FormatFromName guesses the format from a file name such as
// "languages.yaml" or "catalog.json.zst".
func FormatFromName(name string) Format {
	var f Format
	name = strings.ToLower(name)
	if ext := filepath.Ext(name); ext == ".zst" || ext == ".zstd" {
		f.Compressed = true
		name = strings.TrimSuffix(name, ext)
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		f.Encoding = EncodingYAML
	}
	return f
}

// DecodeLanguages reads a catalog payload. JSON may be an array of records
// or an object keyed by language id; object entries are ordered by key.
func DecodeLanguages(r io.Reader, format Format) ([]model.Language, error) {
	if format.Compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []model.Language{}, nil
	}

	switch format.Encoding {
	case EncodingYAML:
		var languages []model.Language
		if err := yaml.Unmarshal(raw, &languages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml catalog: %w", err)
		}
		return languages, nil
	default:
		return decodeJSON(raw)
	}
}

func decodeJSON(raw []byte) ([]model.Language, error) {
	if raw[0] == '[' {
		var languages []model.Language
		if err := json.Unmarshal(raw, &languages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
		}
		return languages, nil
	}

	var byID map[string]model.Language
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	languages := make([]model.Language, 0, len(ids))
	for _, id := range ids {
		l := byID[id]
		if l.ID == "" {
			l.ID = id
		}
		languages = append(languages, l)
	}
	return languages, nil
}

// EncodeSnapshot writes languages as zstd-compressed JSON.
func EncodeSnapshot(w io.Writer, languages []model.Language) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(languages); err != nil {
		enc.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	return nil
}

func validateAll(languages []model.Language) error {
	seen := make(map[string]bool, len(languages))
	for i := range languages {
		if err := languages[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if seen[languages[i].ID] {
			return fmt.Errorf("record %d: duplicate language id %q", i, languages[i].ID)
		}
		seen[languages[i].ID] = true
	}
	return nil
}
