// Package repository implements the cache-aside data-access layer that
// mediates every read and write between callers, the key-value cache, and the
// relational store. Reads check the cache first and repopulate it from the
// store on a miss; writes go to the store and then invalidate the affected
// keys, never patching cached values in place.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/pkg/logger"
	"github.com/clientdesk/clientdesk/pkg/metrics"
)

// Repository orchestrates read-through caching and write-invalidation for one
// entity kind. A nil cache store degrades to always-miss: every read falls
// through to the relational store and no repopulation happens.
type Repository[T any] struct {
	store  Store[T]
	cache  cache.Store
	prefix string
	ttl    TTLConfig
	log    *zap.Logger
}

// New constructs a Repository. prefix namespaces the cache keys for this
// entity kind (e.g. "customers" yields customers:{id}, customers:all,
// customers:stats).
func New[T any](store Store[T], cacheStore cache.Store, prefix string, ttl TTLConfig) (*Repository[T], error) {
	if store == nil {
		return nil, errors.New("repository: store is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, errors.New("repository: key prefix is required")
	}

	return &Repository[T]{
		store:  store,
		cache:  cacheStore,
		prefix: prefix,
		ttl:    ttl,
		log:    logger.WithModule("repository." + prefix),
	}, nil
}

// EntryKey returns the cache key for a single record.
func (r *Repository[T]) EntryKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// ListKey returns the cache key for the full listing.
func (r *Repository[T]) ListKey() string {
	return r.prefix + ":all"
}

// StatsKey returns the cache key for derived aggregates.
func (r *Repository[T]) StatsKey() string {
	return r.prefix + ":stats"
}

// Get returns one record by id, serving from cache when a fresh snapshot
// exists and repopulating from the store otherwise.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, Source, error) {
	return readThrough(ctx, r.cache, r.log, r.prefix, r.EntryKey(id), r.ttl.Entry,
		func(ctx context.Context) (*T, error) {
			return r.store.FindByID(ctx, id)
		})
}

// List returns every record ordered newest first, cached under the listing key.
func (r *Repository[T]) List(ctx context.Context) ([]T, Source, error) {
	return readThrough(ctx, r.cache, r.log, r.prefix, r.ListKey(), r.ttl.List,
		func(ctx context.Context) ([]T, error) {
			return r.store.FindAll(ctx)
		})
}

// Aggregate computes a derived value from a full store scan, cached under the
// stats key independently of the listing cache.
func Aggregate[T, V any](ctx context.Context, r *Repository[T], compute func([]T) V) (V, Source, error) {
	return readThrough(ctx, r.cache, r.log, r.prefix, r.StatsKey(), r.ttl.Stats,
		func(ctx context.Context) (V, error) {
			var zero V
			items, err := r.store.FindAll(ctx)
			if err != nil {
				return zero, err
			}
			return compute(items), nil
		})
}

// Create writes a new record through to the store, then invalidates the
// listing and stats keys. The per-id key is not populated proactively; the
// next Get repopulates it from the store.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.store.Insert(ctx, entity); err != nil {
		return err
	}

	r.invalidate(ctx, r.ListKey(), r.StatsKey())
	return nil
}

// Update applies a partial field set to the store and only then invalidates
// the per-id, listing, and stats keys. The ordering is mandatory: deleting the
// keys first would let a concurrent reader repopulate them with the pre-update
// value.
func (r *Repository[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	entity, err := r.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, r.EntryKey(id), r.ListKey(), r.StatsKey())
	return entity, nil
}

// Delete removes the record from the store, then invalidates its keys.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidate(ctx, r.EntryKey(id), r.ListKey(), r.StatsKey())
	return nil
}

// FindByField bypasses the cache and queries the store for a unique column
// match. Used for lookups that must always see the authoritative record, such
// as login by email.
func (r *Repository[T]) FindByField(ctx context.Context, field, value string) (*T, error) {
	return r.store.FindByField(ctx, field, value)
}

// invalidate deletes cache keys after a successful store write. Failures are
// logged and swallowed: the entry TTL bounds how long a lost invalidation can
// serve stale data.
func (r *Repository[T]) invalidate(ctx context.Context, keys ...string) {
	if r.cache == nil {
		return
	}

	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.log.Warn("cache invalidation failed; staleness bounded by ttl",
			zap.Strings("keys", keys), zap.Error(err))
		return
	}

	metrics.CacheInvalidations.WithLabelValues(r.prefix).Add(float64(len(keys)))
}
