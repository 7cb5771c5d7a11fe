package redisstore

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"multisib/backend/services/collector-service/internal/models"
)

const defaultKey = "multisib:latest"

// LatestStore keeps the last persisted record under a single key.
type LatestStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLatestStore returns redis-backed store. An empty key falls back to multisib:latest.
func NewLatestStore(client *redis.Client, key string, ttl time.Duration) *LatestStore {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultKey
	}
	return &LatestStore{client: client, key: key, ttl: ttl}
}

// Name identifies the mirror in logs.
func (s *LatestStore) Name() string { return "redis" }

// Key returns the redis key written by Publish.
func (s *LatestStore) Key() string { return s.key }

// Publish caches record as JSON.
func (s *LatestStore) Publish(ctx context.Context, record models.TelemetryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, s.ttl).Err()
}

// Get returns the cached JSON document.
func (s *LatestStore) Get(ctx context.Context) (json.RawMessage, error) {
	result, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(result), nil
}
