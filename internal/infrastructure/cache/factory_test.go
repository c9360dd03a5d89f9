package cache

import (
	"errors"
	"testing"

	"github.com/erp/reporting/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func unreachableRedis(config.RedisConfig) (Store, error) {
	return nil, errors.New("connection refused")
}

func TestExportCacheFactory_CreateCache(t *testing.T) {
	t.Run("disabled returns nil", func(t *testing.T) {
		store, err := NewExportCacheFactory(config.CacheConfig{}, config.RedisConfig{}).CreateCache()
		require.NoError(t, err)
		assert.Nil(t, store)
	})

	t.Run("memory backend", func(t *testing.T) {
		store, err := NewExportCacheFactory(config.CacheConfig{Enabled: true, Backend: config.CacheBackendMemory}, config.RedisConfig{}).CreateCache()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryExportCache{}, store)
	})

	t.Run("redis unavailable falls back", func(t *testing.T) {
		f := NewExportCacheFactory(config.CacheConfig{Enabled: true, Backend: config.CacheBackendRedis}, config.RedisConfig{},
			WithLogger(zaptest.NewLogger(t)))
		f.connectRedis = unreachableRedis
		store, err := f.CreateCache()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryExportCache{}, store)
	})

	t.Run("redis required", func(t *testing.T) {
		f := NewExportCacheFactory(config.CacheConfig{Enabled: true, Backend: config.CacheBackendRedis}, config.RedisConfig{},
			WithInMemoryFallback(false))
		f.connectRedis = unreachableRedis
		_, err := f.CreateCache()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewExportCacheFactory(config.CacheConfig{Enabled: true, Backend: "memcached"}, config.RedisConfig{}).CreateCache()
		assert.Error(t, err)
	})
}
