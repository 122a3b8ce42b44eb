package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"koe/internal/platform/config"
)

const scanBatch = 500

// Client wraps the go-redis client with health checking.
type Client struct {
	*redis.Client
}

// New connects to Redis. It returns nil, nil when no URL is configured so
// callers can fall back to the in-memory projection cache.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed. Keys are found with SCAN, so other clients are not blocked.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, fmt.Errorf("refusing to delete without a key prefix")
	}
	var (
		removed int
		batch   = make([]string, 0, scanBatch)
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("unlink %s*: %w", prefix, err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}
	iter := c.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan %s*: %w", prefix, err)
	}
	return removed, flush()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
