package cache

import (
	"context"
	"fmt"

	"lovemap/internal/core/port"
	"lovemap/pkg/config"
)

// New returns the configured cache, or nil when caching is disabled.
func New(ctx context.Context, cfg config.CacheConfig, namespace string) (port.CacheRepository, error) {
	switch cfg.Driver {
	case config.CacheNone:
		return nil, nil
	case config.CacheRedis:
		return NewRedisRepository(ctx, cfg.RedisAddr, cfg.RedisDB, namespace)
	case config.CacheMemory, "":
		return NewMemoryRepository(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
