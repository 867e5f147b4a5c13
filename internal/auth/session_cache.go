package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clientdesk/clientdesk/internal/cache"
)

const sessionCacheKeyPrefix = "session:"

var errSessionCacheMiss = errors.New("session cache miss")

// SessionRecord is the cached projection of an authenticated user. It carries
// everything the profile endpoint returns so a warm session never touches the
// database.
type SessionRecord struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	LastActivity time.Time `json:"last_activity"`
}

// SessionCache stores session records keyed by subject id.
type SessionCache interface {
	Get(ctx context.Context, userID string) (*SessionRecord, error)
	Set(ctx context.Context, record *SessionRecord, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}

type sessionStoreCache struct {
	store cache.Store
}

// NewSessionCache wraps the shared cache client inside a SessionCache
// implementation. A nil store yields a nil cache, which callers treat as
// "always miss".
func NewSessionCache(store cache.Store) SessionCache {
	if store == nil {
		return nil
	}
	return &sessionStoreCache{store: store}
}

func (c *sessionStoreCache) Get(ctx context.Context, userID string) (*SessionRecord, error) {
	key := sessionCacheKey(userID)
	if key == "" {
		return nil, errSessionCacheMiss
	}

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errSessionCacheMiss
	}

	var record SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("session cache: decode: %w", err)
	}
	return &record, nil
}

func (c *sessionStoreCache) Set(ctx context.Context, record *SessionRecord, ttl time.Duration) error {
	if record == nil {
		return errors.New("session cache: record is nil")
	}
	key := sessionCacheKey(record.UserID)
	if key == "" {
		return errors.New("session cache: user id missing")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session cache: marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	return c.store.Set(ctx, key, payload, ttl)
}

func (c *sessionStoreCache) Delete(ctx context.Context, userID string) error {
	key := sessionCacheKey(userID)
	if key == "" {
		return nil
	}
	return c.store.Delete(ctx, key)
}

func sessionCacheKey(userID string) string {
	id := strings.TrimSpace(userID)
	if id == "" {
		return ""
	}
	return sessionCacheKeyPrefix + id
}
