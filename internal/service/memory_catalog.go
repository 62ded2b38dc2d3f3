package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"lingua-globe-service/internal/model"
)

// memoryCatalog keeps the catalog in process. It backs development runs
// without Redis and the handler tests.
type memoryCatalog struct {
	mu        sync.RWMutex
	languages []model.Language
	status    string
}

func NewMemoryCatalog(languages ...model.Language) Catalog {
	c := &memoryCatalog{status: "ready"}
	c.languages = mergeLanguages(nil, languages)
	return c
}

func (c *memoryCatalog) ImportFromReader(ctx context.Context, r io.Reader, format Format) (int, error) {
	c.setStatus("importing")
	defer c.setStatus("ready")

	languages, err := DecodeLanguages(r, format)
	if err != nil {
		return 0, err
	}
	if err := validateAll(languages); err != nil {
		return 0, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.languages = mergeLanguages(c.languages, languages)
	c.mu.Unlock()
	return len(languages), nil
}

func (c *memoryCatalog) List(ctx context.Context) ([]model.Language, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Language, len(c.languages))
	copy(out, c.languages)
	return out, nil
}

func (c *memoryCatalog) Get(ctx context.Context, id string) (model.Language, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.languages {
		if l.ID == id {
			return l, nil
		}
	}
	return model.Language{}, fmt.Errorf("%w: %s", ErrLanguageNotFound, id)
}

func (c *memoryCatalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.languages {
		if l.ID == id {
			c.languages = append(c.languages[:i:i], c.languages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLanguageNotFound, id)
}

func (c *memoryCatalog) Search(ctx context.Context, query string, limit int) ([]model.Language, error) {
	languages, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return searchLanguages(languages, query, limit), nil
}

func (c *memoryCatalog) Export(ctx context.Context, w io.Writer) error {
	languages, err := c.List(ctx)
	if err != nil {
		return err
	}
	return EncodeSnapshot(w, languages)
}

func (c *memoryCatalog) GetImportStatus() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *memoryCatalog) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.languages = nil
	return nil
}

func (c *memoryCatalog) setStatus(s string) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}
