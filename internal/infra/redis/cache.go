package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides type-safe caching operations.
type Cache[T any] struct {
	client    *Client
	keyPrefix string
	ttl       time.Duration
}

// NewCache creates a new type-safe cache.
func NewCache[T any](client *Client, prefix string, ttl time.Duration) (*Cache[T], error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if prefix == "" {
		return nil, errors.New("key prefix is required")
	}
	if ttl <= 0 {
		return nil, errors.New("TTL must be positive")
	}

	return &Cache[T]{
		client:    client,
		keyPrefix: prefix,
		ttl:       ttl,
	}, nil
}

func (c *Cache[T]) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, key)
}

// Get retrieves a cached value by key.
// Returns ErrCacheMiss if the key does not exist.
func (c *Cache[T]) Get(ctx context.Context, key string) (*T, error) {
	if key == "" {
		return nil, errors.New("key is required")
	}

	data, err := c.client.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &value, nil
}

// Set stores a value in the cache with the default TTL.
func (c *Cache[T]) Set(ctx context.Context, key string, value T) error {
	if key == "" {
		return errors.New("key is required")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.client.Set(ctx, c.buildKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a key from the cache.
func (c *Cache[T]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key is required")
	}

	if err := c.client.client.Del(ctx, c.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
