package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"lovemap/internal/core/port"
)

type memoryRepository struct {
	store *gocache.Cache
}

// NewMemoryRepository keeps entries in process; defaultTTL applies when Set gets a zero ttl.
func NewMemoryRepository(defaultTTL time.Duration) port.CacheRepository {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}

	return &memoryRepository{
		store: gocache.New(defaultTTL, 10*time.Minute),
	}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	c.store.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.store.Get(key)
	if !found {
		return nil, port.ErrCacheMiss
	}

	return value.([]byte), nil
}

func (c *memoryRepository) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

func (c *memoryRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
	return nil
}

func (c *memoryRepository) Close() error {
	c.store.Flush()
	return nil
}
