package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	v   T
	exp time.Time
}

// TTLCache is a small in-process cache with per-entry expiry.
// Zero TTL entries never expire.
type TTLCache[T any] struct {
	mu sync.RWMutex
	m  map[string]entry[T]
}

func NewTTLCache[T any]() *TTLCache[T] {
	return &TTLCache[T]{m: make(map[string]entry[T])}
}

func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	return e.v, true
}

func (c *TTLCache[T]) Set(key string, v T, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry[T]{v: v, exp: exp}
	c.mu.Unlock()
}

func (c *TTLCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Purge drops expired entries. Callers decide the sweep cadence.
func (c *TTLCache[T]) Purge() {
	now := time.Now()
	c.mu.Lock()
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
		}
	}
	c.mu.Unlock()
}
