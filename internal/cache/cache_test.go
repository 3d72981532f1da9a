package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openshift-eng/ci-monitor/internal/cache"
)

func TestCacheCreation(t *testing.T) {
	t.Parallel()

	cache := cache.NewCache[string]("test")

	assert.NotNil(t, cache.Mutex)
	assert.NotNil(t, cache.Cache)
	assert.Empty(t, cache.Cache)
}

func TestStringCacheOperation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := cache.NewCache[string]("test")

	value, found := cache.Get(ctx, "19743")

	assert.False(t, found)
	assert.Empty(t, value)

	cache.Put(ctx, "19743", `{"id": 19743}`)
	value, found = cache.Get(ctx, "19743")

	assert.True(t, found)
	assert.Equal(t, `{"id": 19743}`, value)
}

func TestContextCache(t *testing.T) {
	t.Parallel()

	ctx := cache.ContextWithCache(context.Background())

	first := cache.ContextCache[string](ctx, cache.RunCmdCacheContextKey)
	first.Put(ctx, "polarshift get-run 19743", "output")

	second := cache.ContextCache[string](ctx, cache.RunCmdCacheContextKey)
	value, found := second.Get(ctx, "polarshift get-run 19743")

	assert.True(t, found)
	assert.Equal(t, "output", value)
}
