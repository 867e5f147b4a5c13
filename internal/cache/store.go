package cache

import (
	"context"
	"time"
)

// Store represents the shared key-value cache interface used across the
// application. Values are opaque serialized snapshots; every entry carries a
// TTL after which it is treated as absent. The cache is a disposable
// projection of the relational store: dropping it entirely (FlushAll) is
// always safe.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	FlushAll(ctx context.Context) error
}
