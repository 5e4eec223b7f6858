package db

import (
	"context"
	"time"
)

// Store is the corpus store facade.
type Store interface {
	Pinger
	KVStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations, used by the navigation
// result cache.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// IndexManager provides FT index lifecycle operations for the corpus index.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher executes pre-rendered navigation queries over the corpus index.
type Searcher interface {
	Search(ctx context.Context, q *NavQuery) (*SearchResult, error)
	Aggregate(ctx context.Context, q *AggregateQuery) (*SearchResult, error)
	Count(ctx context.Context, index, query string) (int, error)
}
