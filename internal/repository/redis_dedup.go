package repository

import (
	"context"
	"fmt"
	"time"

	drepo "NewsPull/internal/domain/repository"
	"NewsPull/pkg/cache"
)

// RedisDedup persists article identities across runs so restarting the
// engine never double-counts an article. Keys expire after ttl.
type RedisDedup struct {
	cache cache.Service
	ttl   time.Duration
}

func NewRedisDedup(c cache.Service, ttl time.Duration) drepo.DedupStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisDedup{cache: c, ttl: ttl}
}

func (d *RedisDedup) key(id string) string { return "seen:" + id }

func (d *RedisDedup) Seen(ctx context.Context, id string) (bool, error) {
	ok, err := d.cache.Exists(ctx, d.key(id))
	if err != nil {
		return false, fmt.Errorf("dedup seen: %w", err)
	}
	return ok, nil
}

func (d *RedisDedup) Mark(ctx context.Context, id string) error {
	if err := d.cache.Set(ctx, d.key(id), 1, d.ttl); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}
