package navigate

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/corpuslens/corpuslens/internal/compiler"
	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// mockCorpus implements Corpus for tests.
type mockCorpus struct {
	executeFn       func(ctx context.Context, desc *render.QueryDescriptor, vector []float32) ([]nav.Result, int, error)
	estimateCountFn func(ctx context.Context, desc *render.QueryDescriptor) (int, error)
	executeCalls    int
}

func (m *mockCorpus) Execute(ctx context.Context, desc *render.QueryDescriptor, vector []float32) ([]nav.Result, int, error) {
	m.executeCalls++
	if m.executeFn != nil {
		return m.executeFn(ctx, desc, vector)
	}
	return nil, 0, nil
}

func (m *mockCorpus) EstimateCount(ctx context.Context, desc *render.QueryDescriptor) (int, error) {
	if m.estimateCountFn != nil {
		return m.estimateCountFn(ctx, desc)
	}
	return 0, nil
}

// mockCache implements Cache for tests.
type mockCache struct {
	getFn func(ctx context.Context, paramHash string) ([]byte, bool)
	putFn func(ctx context.Context, paramHash string, payload []byte)
	puts  int
}

func (m *mockCache) Get(ctx context.Context, paramHash string) ([]byte, bool) {
	if m.getFn != nil {
		return m.getFn(ctx, paramHash)
	}
	return nil, false
}

func (m *mockCache) Put(ctx context.Context, paramHash string, payload []byte) {
	m.puts++
	if m.putFn != nil {
		m.putFn(ctx, paramHash, payload)
	}
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn  func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls    int
	lastText string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastText = text
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}, TotalTokens: 5}, nil
}

// mockRecorder implements Recorder for tests.
type mockRecorder struct {
	compileStatuses []string
	executeStatuses []string
}

func (m *mockRecorder) Compile(_, _, status string, _ time.Duration, _ int) {
	m.compileStatuses = append(m.compileStatuses, status)
}

func (m *mockRecorder) Execute(_, status string, _ time.Duration) {
	m.executeStatuses = append(m.executeStatuses, status)
}

func newTestService(t *testing.T) (*Service, *mockCorpus, *mockCache, *mockEmbedder, *mockRecorder) {
	t.Helper()
	comp := compiler.New(compiler.Config{}, compiler.WithClock(func() time.Time { return testNow }))
	corpus := &mockCorpus{}
	cache := &mockCache{}
	embed := &mockEmbedder{}
	recorder := &mockRecorder{}
	svc := New(comp, corpus, cache, embed, recorder, zap.NewNop())
	return svc, corpus, cache, embed, recorder
}
