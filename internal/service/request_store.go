package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lingua-globe-service/internal/model"
)

const requestsKey = "requests:languages"

// RequestStore queues visitor suggestions for languages the catalog lacks.
type RequestStore interface {
	Submit(ctx context.Context, req model.LanguageRequest) (model.LanguageRequest, error)
	List(ctx context.Context) ([]model.LanguageRequest, error)
}

// prepareRequest validates a submission and stamps it with an id and time.
func prepareRequest(req model.LanguageRequest, now time.Time) (model.LanguageRequest, error) {
	if err := req.Validate(); err != nil {
		return model.LanguageRequest{}, err
	}
	req.ID = uuid.New().String()
	req.CreatedAt = now.UTC()
	return req, nil
}

type memoryRequestStore struct {
	mu       sync.RWMutex
	requests []model.LanguageRequest
}

func NewMemoryRequestStore() RequestStore {
	return &memoryRequestStore{}
}

func (s *memoryRequestStore) Submit(ctx context.Context, req model.LanguageRequest) (model.LanguageRequest, error) {
	req, err := prepareRequest(req, time.Now())
	if err != nil {
		return model.LanguageRequest{}, err
	}
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return req, nil
}

func (s *memoryRequestStore) List(ctx context.Context) ([]model.LanguageRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.LanguageRequest, len(s.requests))
	copy(out, s.requests)
	return out, nil
}

type redisRequestStore struct {
	redisClient *redis.Client
}

func NewRedisRequestStore(redisClient *redis.Client) RequestStore {
	return &redisRequestStore{redisClient: redisClient}
}

func (s *redisRequestStore) Submit(ctx context.Context, req model.LanguageRequest) (model.LanguageRequest, error) {
	req, err := prepareRequest(req, time.Now())
	if err != nil {
		return model.LanguageRequest{}, err
	}
	jsonData, err := json.Marshal(req)
	if err != nil {
		return model.LanguageRequest{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := s.redisClient.RPush(ctx, requestsKey, jsonData).Err(); err != nil {
		return model.LanguageRequest{}, storageError("failed to store request", err)
	}
	return req, nil
}

func (s *redisRequestStore) List(ctx context.Context) ([]model.LanguageRequest, error) {
	values, err := s.redisClient.LRange(ctx, requestsKey, 0, -1).Result()
	if err != nil {
		return nil, storageError("failed to fetch requests", err)
	}
	requests := make([]model.LanguageRequest, 0, len(values))
	for _, v := range values {
		var req model.LanguageRequest
		if err := json.Unmarshal([]byte(v), &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}
