package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces existence entries in a shared Redis instance.
const keyPrefix = "job-capture:exists:"

// RedisCache is an ExistenceCache over Redis, for deployments running more
// than one server instance. Errors surface to the caller, which treats them
// as misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A TTL of zero or less uses
// DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Check returns the cached answer for a URL. A missing key is a miss, not
// an error.
func (c *RedisCache) Check(ctx context.Context, normalizedURL string) (Entry, bool, error) {
	value, err := c.client.Get(ctx, keyPrefix+normalizedURL).Result()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("existence cache read failed: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(value), &entry); err != nil {
		return Entry{}, false, fmt.Errorf("existence cache entry corrupt for %s: %w", normalizedURL, err)
	}
	return entry, true, nil
}

// Set records an existence answer with a fresh TTL.
func (c *RedisCache) Set(ctx context.Context, normalizedURL string, entry Entry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("existence cache entry marshal failed: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+normalizedURL, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("existence cache write failed: %w", err)
	}
	return nil
}

// Invalidate removes the entry for a URL.
func (c *RedisCache) Invalidate(ctx context.Context, normalizedURL string) error {
	if err := c.client.Del(ctx, keyPrefix+normalizedURL).Err(); err != nil {
		return fmt.Errorf("existence cache invalidate failed: %w", err)
	}
	return nil
}
