package navigate

import (
	"context"
	"time"

	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
)

// Corpus executes compiled query descriptors against the corpus store.
type Corpus interface {
	Execute(ctx context.Context, desc *render.QueryDescriptor, vector []float32) ([]nav.Result, int, error)
	EstimateCount(ctx context.Context, desc *render.QueryDescriptor) (int, error)
}

// Cache is the navigation response cache, keyed by parameter hash.
// Get misses on any store failure; Put is best effort.
type Cache interface {
	Get(ctx context.Context, paramHash string) ([]byte, bool)
	Put(ctx context.Context, paramHash string, payload []byte)
}

// Embedder vectorizes the similarity anchor text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Recorder sinks navigation metrics. Implementations must tolerate being
// called from concurrent requests.
type Recorder interface {
	Compile(zoom, tilt, status string, duration time.Duration, complexity int)
	Execute(kind, status string, duration time.Duration)
}
