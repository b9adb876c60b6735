package cache

import (
	"context"
	"errors"
	"strings"

	"lovemap/internal/core/port"
)

type HitRecorder interface {
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
}

type instrumentedRepository struct {
	port.CacheRepository
	recorder HitRecorder
}

// Instrument counts hits and misses on Get, labelled by the key prefix before the first colon.
func Instrument(repo port.CacheRepository, recorder HitRecorder) port.CacheRepository {
	if repo == nil || recorder == nil {
		return repo
	}

	return &instrumentedRepository{CacheRepository: repo, recorder: recorder}
}

func (c *instrumentedRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.CacheRepository.Get(ctx, key)

	switch {
	case err == nil:
		c.recorder.RecordCacheHit(ctx, keyGroup(key))
	case errors.Is(err, port.ErrCacheMiss):
		c.recorder.RecordCacheMiss(ctx, keyGroup(key))
	}

	return value, err
}

func keyGroup(key string) string {
	if i := strings.Index(key, ":"); i > 0 {
		return key[:i]
	}

	return key
}
