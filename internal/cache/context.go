package cache

import (
	"context"
)

const (
	// RunCmdCacheContextKey is the context key under which external command
	// output is memoized, so a run named several times on the command line is
	// only queried once.
	RunCmdCacheContextKey ctxKey = iota

	runCmdCacheName = "runCmdCache"
)

type ctxKey byte

func ContextWithCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, RunCmdCacheContextKey, NewCache[string](runCmdCacheName))
}
