package cache

import (
	"context"
	"time"
)

// LayeredCache is a two-level cache: L1 memory, L2 any Service (Redis in production).
type LayeredCache struct {
	mem *MemoryCache
	l2  Service
	// l1TTL bounds how long an L2 hit stays in memory.
	l1TTL time.Duration
}

func NewLayeredCache(l2 Service, memSize int, l1TTL time.Duration) *LayeredCache {
	return &LayeredCache{
		mem:   NewMemoryCache(WithMemoryMaxSize(memSize)),
		l2:    l2,
		l1TTL: l1TTL,
	}
}

// Set writes through: L2 first, then memory.
func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.mem.Set(ctx, key, value, expiration)
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.l2.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, dest, lc.l1TTL)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.mem.Close()
	return lc.l2.Close()
}
