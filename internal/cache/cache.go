// Package cache stores raw upstream payloads for a bounded time.
package cache

import (
	"context"
	"time"
)

// Cache is satisfied by the in-memory and redis stores. A miss and a store
// failure look the same to callers: they fall through to the upstream call.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) {}
