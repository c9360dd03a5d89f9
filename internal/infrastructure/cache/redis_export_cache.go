package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	reportapp "github.com/erp/reporting/internal/application/report"
	"github.com/erp/reporting/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "reporting:"

// RedisExportCache implements ExportCache using Redis
// This is suitable for deployments where several instances serve exports
type RedisExportCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisExportCache connects to Redis and verifies the connection
func NewRedisExportCache(cfg config.RedisConfig) (*RedisExportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisExportCacheWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisExportCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisExportCacheWithClient(client *redis.Client, keyPrefix string) *RedisExportCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisExportCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached document, if any
func (c *RedisExportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached export: %w", err)
	}
	return data, true, nil
}

// Set stores data with a TTL
func (c *RedisExportCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache export: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisExportCache) Close() error {
	return c.client.Close()
}

// Ensure RedisExportCache implements ExportCache
var _ reportapp.ExportCache = (*RedisExportCache)(nil)
