//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"koe/internal/platform/config"
	platformredis "koe/internal/platform/redis"
)

// RedisContainer is a Redis instance reached through the same client the
// server builds from its config.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *platformredis.Client
}

// NewRedisContainer starts Redis and connects with platformredis.New.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}

	client, err := platformredis.New(ctx, config.RedisConfig{
		URL:          url,
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("connect to redis: %v", err)
	}

	// Shared across suites by the Manager; Ryuk removes the container.
	return &RedisContainer{Container: container, URL: url, Client: client}
}

// FlushPrefix clears one key namespace, leaving keys other suites own.
func (r *RedisContainer) FlushPrefix(ctx context.Context, prefix string) error {
	_, err := r.Client.DeletePrefix(ctx, prefix)
	return err
}
