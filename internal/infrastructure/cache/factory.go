package cache

import (
	"fmt"
	"io"

	reportapp "github.com/erp/reporting/internal/application/report"
	"github.com/erp/reporting/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Store is an export cache that owns resources to release on shutdown
type Store interface {
	reportapp.ExportCache
	io.Closer
}

// ExportCacheFactory creates export caches based on configuration
type ExportCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connectRedis          func(config.RedisConfig) (Store, error)
}

// ExportCacheFactoryOption is a functional option for configuring the factory
type ExportCacheFactoryOption func(*ExportCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ExportCacheFactoryOption {
	return func(f *ExportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) ExportCacheFactoryOption {
	return func(f *ExportCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewExportCacheFactory creates a new factory
func NewExportCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...ExportCacheFactoryOption) *ExportCacheFactory {
	f := &ExportCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connectRedis: func(cfg config.RedisConfig) (Store, error) {
			return NewRedisExportCache(cfg)
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache returns the configured cache, or nil when caching is disabled.
// A Redis backend that cannot be reached falls back to memory if allowed.
func (f *ExportCacheFactory) CreateCache() (Store, error) {
	if !f.cacheConfig.Enabled {
		return nil, nil
	}

	switch f.cacheConfig.Backend {
	case "", config.CacheBackendMemory:
		f.logger.Info("using in-memory export cache")
		return NewInMemoryExportCache(), nil
	case config.CacheBackendRedis:
		store, err := f.connectRedis(f.redisConfig)
		if err == nil {
			f.logger.Info("using Redis export cache")
			return store, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required for export cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory export cache", zap.Error(err))
		return NewInMemoryExportCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.cacheConfig.Backend)
	}
}
