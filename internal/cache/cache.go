// Package cache provides generic in-memory caches with hit/miss telemetry.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/openshift-eng/ci-monitor/internal/telemetry"
)

// Cache - generic cache implementation
type Cache[V any] struct {
	Name  string
	Cache map[string]V
	Mutex *sync.RWMutex
}

// NewCache - create new cache with generic type V
func NewCache[V any](name string) *Cache[V] {
	return &Cache[V]{
		Name:  name,
		Cache: make(map[string]V),
		Mutex: &sync.RWMutex{},
	}
}

// Get - fetch value from cache by key
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	c.Mutex.RLock()
	defer c.Mutex.RUnlock()

	keyHash := sha256.Sum256([]byte(key))
	cacheKey := fmt.Sprintf("%x", keyHash)

	value, found := c.Cache[cacheKey]

	tlm := telemetry.TelemeterFromContext(ctx)
	tlm.Count(ctx, c.Name+"_cache_get", 1)

	if found {
		tlm.Count(ctx, c.Name+"_cache_hit", 1)
	} else {
		tlm.Count(ctx, c.Name+"_cache_miss", 1)
	}

	return value, found
}

// Put - put value into cache by key
func (c *Cache[V]) Put(ctx context.Context, key string, value V) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()

	telemetry.TelemeterFromContext(ctx).Count(ctx, c.Name+"_cache_put", 1)

	keyHash := sha256.Sum256([]byte(key))
	cacheKey := fmt.Sprintf("%x", keyHash)
	c.Cache[cacheKey] = value
}

// ContextCache returns a cache from the context. If the context has no cache under the key, a new instance is returned.
func ContextCache[T any](ctx context.Context, key any) *Cache[T] {
	cacheInstance, ok := ctx.Value(key).(*Cache[T])
	if !ok || cacheInstance == nil {
		cacheInstance = NewCache[T](fmt.Sprintf("%v", key))
	}

	return cacheInstance
}
