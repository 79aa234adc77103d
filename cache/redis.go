// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const resultsKey = "ballotbox:results"

// DefaultTTL bounds staleness between invalidations, e.g. after a
// direct database edit the cache never noticed.
const DefaultTTL = 5 * time.Second

// RedisCache caches the results leaderboard in Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	slog.Info("connected to Redis", "addr", addr)
	return &RedisCache{client: client, ttl: DefaultTTL}, nil
}

func (c *RedisCache) GetResults(ctx context.Context) ([]byte, bool) {
	val, err := c.client.Get(ctx, resultsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("results cache read failed", "error", err)
		return nil, false
	}
	return val, true
}

func (c *RedisCache) SetResults(ctx context.Context, payload []byte) {
	if err := c.client.Set(ctx, resultsKey, payload, c.ttl).Err(); err != nil {
		slog.Warn("results cache write failed", "error", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, resultsKey).Err(); err != nil {
		slog.Warn("results cache invalidation failed", "error", err)
	}
}
