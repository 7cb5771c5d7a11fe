package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"multisib/backend/services/collector-service/internal/models"
)

func TestNewLatestStore_DefaultKey(t *testing.T) {
	store := NewLatestStore(nil, " ", time.Minute)
	assert.Equal(t, "multisib:latest", store.Key())
	assert.Equal(t, "redis", store.Name())

	store = NewLatestStore(nil, "site-a:battery", 0)
	assert.Equal(t, "site-a:battery", store.Key())
}

func TestPublish_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := NewLatestStore(client, "", time.Minute)
	err := store.Publish(context.Background(), models.NewTelemetryRecord(time.Now()))
	assert.Error(t, err)

	_, err = store.Get(context.Background())
	assert.Error(t, err)
}
