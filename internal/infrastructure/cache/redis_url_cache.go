// Package cache caché de URLs de descarga firmadas en Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
)

var _ ports.URLCache = (*RedisURLCache)(nil)

// RedisURLCache implementa ports.URLCache. Las entradas expiran solas con el TTL.
type RedisURLCache struct {
	client *redis.Client
	prefix string
}

// NewRedisURLCache conecta a partir de una URL redis://.
func NewRedisURLCache(ctx context.Context, redisURL string) (*RedisURLCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisURLCacheWithClient(client), nil
}

// NewRedisURLCacheWithClient usa un cliente existente.
func NewRedisURLCacheWithClient(client *redis.Client) *RedisURLCache {
	return &RedisURLCache{client: client, prefix: "sgsst:"}
}

func (c *RedisURLCache) Get(ctx context.Context, key string) (string, bool, error) {
	url, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get cached url: %w", err)
	}
	return url, true, nil
}

func (c *RedisURLCache) Set(ctx context.Context, key, url string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, url, ttl).Err(); err != nil {
		return fmt.Errorf("cache url: %w", err)
	}
	return nil
}

func (c *RedisURLCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete cached url: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (c *RedisURLCache) Close() error {
	return c.client.Close()
}
