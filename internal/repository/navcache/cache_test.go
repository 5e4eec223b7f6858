package navcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/corpuslens/corpuslens/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn        func(ctx context.Context, key string) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, &db.Error{Op: db.OpGet, Err: db.ErrKeyNotFound}
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestCache(t *testing.T) (*Cache, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 5*time.Minute, nil, zap.NewNop()), ms
}

func TestGet_Hit(t *testing.T) {
	c, ms := newTestCache(t)

	var requested string
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		requested = key
		return []byte(`{"total":1}`), nil
	}

	data, ok := c.Get(context.Background(), "abc123")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(data) != `{"total":1}` {
		t.Errorf("payload = %s", data)
	}
	if requested != "corpuslens:nav_cache:abc123" {
		t.Errorf("key = %q", requested)
	}
}

func TestGet_Miss(t *testing.T) {
	c, _ := newTestCache(t)
	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestGet_StoreFailureIsMiss(t *testing.T) {
	c, ms := newTestCache(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	if _, ok := c.Get(context.Background(), "abc"); ok {
		t.Fatal("store failure must read as a miss")
	}
}

func TestGet_EmptyPayloadIsMiss(t *testing.T) {
	c, ms := newTestCache(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, nil
	}
	if _, ok := c.Get(context.Background(), "abc"); ok {
		t.Fatal("empty payload must read as a miss")
	}
}

func TestPut(t *testing.T) {
	c, ms := newTestCache(t)

	var (
		storedKey string
		storedTTL time.Duration
	)
	ms.setWithTTLFn = func(_ context.Context, key string, _ []byte, ttl time.Duration) error {
		storedKey = key
		storedTTL = ttl
		return nil
	}

	c.Put(context.Background(), "abc123", []byte(`{}`))
	if storedKey != "corpuslens:nav_cache:abc123" {
		t.Errorf("key = %q", storedKey)
	}
	if storedTTL != 5*time.Minute {
		t.Errorf("ttl = %v", storedTTL)
	}
}

func TestPut_FailureIsSilent(t *testing.T) {
	c, ms := newTestCache(t)
	ms.setWithTTLFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}
	// Best-effort write: must not panic or surface the error.
	c.Put(context.Background(), "abc", []byte(`{}`))
}

func TestInvalidate(t *testing.T) {
	c, ms := newTestCache(t)

	var deleted string
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}
	if err := c.Invalidate(context.Background(), "abc123"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if deleted != "corpuslens:nav_cache:abc123" {
		t.Errorf("key = %q", deleted)
	}

	ms.delFn = func(_ context.Context, _ string) error {
		return errors.New("connection refused")
	}
	if err := c.Invalidate(context.Background(), "abc123"); err == nil {
		t.Error("expected error")
	}
}
