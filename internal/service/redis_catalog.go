package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lingua-globe-service/internal/model"
)

const (
	orderKey    = "languages:order"
	idsKey      = "languages:ids"
	metadataKey = "import:metadata"
	batchSize   = 1000
)

// appendID pushes an id onto the catalog order only the first time it is
// seen, so concurrent imports of the same new id leave one entry.
var appendID = redis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 1 then
	return redis.call("RPUSH", KEYS[2], ARGV[1])
end
return 0
`)

func languageKey(id string) string {
	return fmt.Sprintf("language:%s", id)
}

func storageError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, action, err)
}

type importMetadata struct {
	TotalRecords int    `json:"total_records"`
	Status       string `json:"status"`
	Timestamp    int64  `json:"timestamp"`
}

type redisCatalog struct {
	redisClient *redis.Client

	mu     sync.Mutex
	status string
}

func NewRedisCatalog(redisClient *redis.Client) Catalog {
	return &redisCatalog{
		redisClient: redisClient,
		status:      "ready",
	}
}

func (c *redisCatalog) ImportFromReader(ctx context.Context, r io.Reader, format Format) (int, error) {
	c.setStatus("importing")
	defer c.setStatus("ready")

	languages, err := DecodeLanguages(r, format)
	if err != nil {
		return 0, err
	}
	if err := validateAll(languages); err != nil {
		return 0, fmt.Errorf("invalid catalog: %w", err)
	}

	pipeline := c.redisClient.Pipeline()
	count := 0
	for _, l := range languages {
		jsonData, err := json.Marshal(l)
		if err != nil {
			return count, fmt.Errorf("failed to marshal language: %w", err)
		}

		pipeline.Set(ctx, languageKey(l.ID), jsonData, 0)
		appendID.Eval(ctx, pipeline, []string{idsKey, orderKey}, l.ID)
		count++

		// Execute pipeline in batches
		if count%batchSize == 0 {
			if _, err := pipeline.Exec(ctx); err != nil {
				return count, storageError("failed to execute pipeline", err)
			}
			pipeline = c.redisClient.Pipeline()
		}
	}

	if count%batchSize != 0 {
		if _, err := pipeline.Exec(ctx); err != nil {
			return count, storageError("failed to execute final pipeline", err)
		}
	}

	metadataJSON, err := json.Marshal(importMetadata{
		TotalRecords: count,
		Status:       "completed",
		Timestamp:    time.Now().Unix(),
	})
	if err != nil {
		return count, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.redisClient.Set(ctx, metadataKey, metadataJSON, 0).Err(); err != nil {
		return count, storageError("failed to store metadata", err)
	}

	return count, nil
}

func (c *redisCatalog) List(ctx context.Context) ([]model.Language, error) {
	ids, err := c.redisClient.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, storageError("failed to fetch catalog order", err)
	}
	if len(ids) == 0 {
		return []model.Language{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = languageKey(id)
	}
	values, err := c.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageError("failed to fetch languages", err)
	}

	seen := make(map[string]bool, len(ids))
	languages := make([]model.Language, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok || seen[ids[i]] {
			// order entry without a record, or a repeat; skip it
			continue
		}
		seen[ids[i]] = true
		var l model.Language
		if err := json.Unmarshal([]byte(s), &l); err != nil {
			return nil, fmt.Errorf("failed to unmarshal language %s: %w", ids[i], err)
		}
		languages = append(languages, l)
	}
	return languages, nil
}

func (c *redisCatalog) Get(ctx context.Context, id string) (model.Language, error) {
	s, err := c.redisClient.Get(ctx, languageKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Language{}, fmt.Errorf("%w: %s", ErrLanguageNotFound, id)
	}
	if err != nil {
		return model.Language{}, storageError("failed to fetch language", err)
	}

	var l model.Language
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return model.Language{}, fmt.Errorf("failed to unmarshal language: %w", err)
	}
	return l, nil
}

func (c *redisCatalog) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := c.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, languageKey(id))
		pipe.LRem(ctx, orderKey, 0, id)
		pipe.SRem(ctx, idsKey, id)
		return nil
	})
	if err != nil {
		return storageError("failed to delete language", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrLanguageNotFound, id)
	}
	return nil
}

func (c *redisCatalog) Search(ctx context.Context, query string, limit int) ([]model.Language, error) {
	languages, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return searchLanguages(languages, query, limit), nil
}

func (c *redisCatalog) Export(ctx context.Context, w io.Writer) error {
	languages, err := c.List(ctx)
	if err != nil {
		return err
	}
	return EncodeSnapshot(w, languages)
}

func (c *redisCatalog) GetImportStatus() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *redisCatalog) Clear(ctx context.Context) error {
	ids, err := c.redisClient.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return storageError("failed to fetch catalog order", err)
	}
	keys := []string{orderKey, idsKey, metadataKey}
	for _, id := range ids {
		keys = append(keys, languageKey(id))
	}
	if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
		return storageError("failed to clear catalog", err)
	}
	return nil
}

func (c *redisCatalog) setStatus(s string) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}
