package chi

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/corpuslens/corpuslens/internal/compiler"
	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	healthuc "github.com/corpuslens/corpuslens/internal/usecase/health"
	navigateuc "github.com/corpuslens/corpuslens/internal/usecase/navigate"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// mockCorpus implements navigate.Corpus for tests.
type mockCorpus struct {
	executeFn       func(ctx context.Context, desc *render.QueryDescriptor, vector []float32) ([]nav.Result, int, error)
	estimateCountFn func(ctx context.Context, desc *render.QueryDescriptor) (int, error)
}

func (m *mockCorpus) Execute(ctx context.Context, desc *render.QueryDescriptor, vector []float32) ([]nav.Result, int, error) {
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

// mockEmbedder implements navigate.Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}, TotalTokens: 5}, nil
}

// mockPinger implements health.StorePinger for tests.
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// testHarness bundles the router and the mocks behind it.
type testHarness struct {
	router *chi.Mux
	corpus *mockCorpus
	embed  *mockEmbedder
	pinger *mockPinger
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	comp := compiler.New(compiler.Config{}, compiler.WithClock(func() time.Time { return testNow }))
	corpus := &mockCorpus{}
	embed := &mockEmbedder{}
	pinger := &mockPinger{}

	navSvc := navigateuc.New(comp, corpus, nil, embed, nil, zap.NewNop())
	healthSvc := healthuc.New(pinger, nil)

	srv := NewServer(navSvc, healthSvc, zap.NewNop())
	r := chi.NewRouter()
	srv.Register(r)

	return &testHarness{router: r, corpus: corpus, embed: embed, pinger: pinger}
}
