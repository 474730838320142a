package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisResponseCache backs ResponseCache with Redis; expiry is handled
// entirely by the server-side TTL.
type RedisResponseCache struct {
	client *redis.Client
}

// NewRedisResponseCache wraps a Redis client as a ResponseCache.
func NewRedisResponseCache(client *redis.Client) *RedisResponseCache {
	return &RedisResponseCache{client: client}
}

// Get returns the cached body for key, or an error on a miss.
func (c *RedisResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

// Set stores the body under key for the given TTL.
func (c *RedisResponseCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, body, ttl).Err()
}
