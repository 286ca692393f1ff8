// Package cache provides the short-TTL value cache in front of the upstream
// prediction service. Deployments with a shared cache point REDIS_URL at it;
// otherwise an in-process expirable LRU serves the same interface.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache is a byte-value cache with per-entry TTL. A miss is (nil, false, nil);
// backend failures surface as errors so callers can fall through to the
// origin.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// LRUCache is the in-process implementation.
type LRUCache struct {
	inner *lru.LRU[string, []byte]
}

// NewLRU creates an in-process cache holding up to size entries, each
// expiring after ttl.
func NewLRU(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{inner: lru.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.inner.Get(key)
	return v, ok, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	// The LRU applies its construction-time TTL uniformly.
	c.inner.Add(key, value)
	return nil
}

// RedisCache is the shared implementation.
type RedisCache struct {
	client *redis.Client
}

// NewRedis creates a cache on an existing redis client.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
