package repository

import (
	"context"
	"time"
)

// Source identifies where a read was served from.
type Source string

const (
	// SourceCache marks values served from the key-value cache.
	SourceCache Source = "cache"
	// SourceStore marks values served from the relational store.
	SourceStore Source = "store"
)

// TTLConfig bundles the cache lifetimes for one entity kind.
type TTLConfig struct {
	Entry time.Duration // per-id snapshots
	List  time.Duration // full listing
	Stats time.Duration // derived aggregates
}

// Store is the relational adapter a Repository writes through to. It owns the
// durable record; implementations surface NotFound and Conflict as the
// corresponding pkg/errors sentinels and wrap connectivity failures as
// Unavailable.
type Store[T any] interface {
	Insert(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
	FindByField(ctx context.Context, field, value string) (*T, error)
}
