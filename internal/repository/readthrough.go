package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/pkg/metrics"
)

// readThrough is the cache-aside read primitive: return the cached snapshot if
// present, otherwise fetch from the authoritative source and repopulate the
// key. Cache failures in either direction degrade to a miss; they never block
// the read. Concurrent misses may race on the repopulation; that is accepted
// because snapshots are idempotent.
func readThrough[V any](ctx context.Context, store cache.Store, log *zap.Logger, entity, key string, ttl time.Duration, fetch func(context.Context) (V, error)) (V, Source, error) {
	var zero V

	if store != nil {
		payload, found, err := store.Get(ctx, key)
		if err != nil {
			log.Warn("cache get failed; treating as miss",
				zap.String("key", key), zap.Error(err))
		} else if found {
			var value V
			if err := json.Unmarshal(payload, &value); err != nil {
				log.Warn("cache entry undecodable; treating as miss",
					zap.String("key", key), zap.Error(err))
			} else {
				metrics.CacheLookups.WithLabelValues(entity, string(SourceCache)).Inc()
				return value, SourceCache, nil
			}
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, SourceStore, err
	}

	metrics.CacheLookups.WithLabelValues(entity, string(SourceStore)).Inc()

	if store != nil && ttl > 0 {
		if payload, err := json.Marshal(value); err != nil {
			log.Warn("cache encode failed; skipping repopulation",
				zap.String("key", key), zap.Error(err))
		} else if err := store.Set(ctx, key, payload, ttl); err != nil {
			log.Warn("cache set failed; next read falls through to store",
				zap.String("key", key), zap.Error(err))
		}
	}

	return value, SourceStore, nil
}
