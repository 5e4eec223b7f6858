// Package navigate orchestrates the navigation flow: compile the request,
// consult the response cache, embed the similarity anchor when the tilt
// needs one, and execute the descriptor against the corpus.
package navigate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/corpuslens/corpuslens/internal/compiler"
	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	"github.com/corpuslens/corpuslens/internal/domain/nav/pan"
)

// Item is a single navigation result in the response payload.
type Item struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	Score   float64           `json:"score"`
	Label   string            `json:"label,omitempty"`
	Content string            `json:"content,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Response is the executed navigation result.
type Response struct {
	Results     []Item   `json:"results"`
	Total       int      `json:"total"`
	Limit       int      `json:"limit"`
	Kind        string   `json:"kind"`
	Zoom        string   `json:"zoom"`
	Ordering    string   `json:"ordering"`
	Complexity  int      `json:"complexity"`
	CacheKey    string   `json:"cacheKey"`
	Cached      bool     `json:"cached"`
	TokensUsed  int      `json:"tokensUsed,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	RenderedFor string   `json:"renderedFor,omitempty"`
}

// Service handles navigation requests.
type Service struct {
	compiler *compiler.Compiler
	corpus   Corpus
	cache    Cache
	embed    Embedder
	recorder Recorder
	logger   *zap.Logger
}

// New creates a navigation service. cache, embed, and recorder can be nil;
// a nil embed rejects embedding-tilt execution.
func New(c *compiler.Compiler, corpus Corpus, cache Cache, embed Embedder, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{compiler: c, corpus: corpus, cache: cache, embed: embed, recorder: recorder, logger: logger}
}

// Compile compiles a request without touching the corpus. Used by the
// dry-run endpoint and as the first stage of Navigate.
func (s *Service) Compile(req nav.Request) (compiler.Output, error) {
	start := time.Now()

	out, err := s.compiler.Compile(req)
	if err != nil {
		s.recordCompile(req.Zoom, req.Tilt, "invalid", time.Since(start), 0)
		return compiler.Output{}, err
	}

	s.recordCompile(req.Zoom, req.Tilt, "ok", time.Since(start), out.Parameters.Metadata().Complexity)
	return out, nil
}

// Navigate compiles and executes a request. Identical parameters hit the
// response cache and skip both embedding and execution.
func (s *Service) Navigate(ctx context.Context, req nav.Request) (*Response, error) {
	out, err := s.Compile(req)
	if err != nil {
		return nil, err
	}
	desc := &out.Descriptor

	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, desc.CacheKey); ok {
			var resp Response
			if err := json.Unmarshal(payload, &resp); err == nil {
				resp.Cached = true
				return &resp, nil
			}
			s.logger.Warn("Discarding undecodable cached navigation response",
				zap.String("hash", desc.CacheKey), zap.Error(err))
		}
	}

	var vector []float32
	tokensUsed := 0
	if desc.Kind == render.KindSimilarity {
		anchor := anchorText(out.Parameters.Pan())
		if anchor == "" {
			return nil, fmt.Errorf("embedding tilt needs a topic, concept, or keyword anchor: %w", domain.ErrInvalidRequest)
		}
		if s.embed == nil {
			return nil, fmt.Errorf("embedding provider not configured: %w", domain.ErrNotImplemented)
		}
		emb, err := s.embed.Embed(ctx, anchor)
		if err != nil {
			return nil, fmt.Errorf("embed anchor: %w", err)
		}
		vector = emb.Embedding
		tokensUsed = emb.TotalTokens
	}

	start := time.Now()
	results, total, err := s.corpus.Execute(ctx, desc, vector)
	if err != nil {
		s.recordExecute(string(desc.Kind), "error", time.Since(start))
		return nil, fmt.Errorf("execute navigation: %w", err)
	}
	s.recordExecute(string(desc.Kind), "ok", time.Since(start))

	resp := &Response{
		Results:    toItems(results),
		Total:      total,
		Limit:      desc.ResultLimit,
		Kind:       string(desc.Kind),
		Zoom:       desc.ZoomLevel.String(),
		Ordering:   string(desc.OrderingKey),
		Complexity: desc.Metadata.Complexity,
		CacheKey:   desc.CacheKey,
		TokensUsed: tokensUsed,
		Warnings:   out.Warnings,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			s.cache.Put(ctx, desc.CacheKey, payload)
		}
	}

	return resp, nil
}

// anchorText joins the textual pan dimensions into the text embedded for
// KNN similarity. Topic variants are excluded; the raw value is the
// anchor.
func anchorText(filters pan.Filters) string {
	var parts []string
	if t := filters.Topic(); t != nil {
		parts = append(parts, t.Value())
	}
	parts = append(parts, filters.Concepts()...)
	parts = append(parts, filters.Keywords()...)
	return strings.Join(parts, " ")
}

func toItems(results []nav.Result) []Item {
	items := make([]Item, 0, len(results))
	for i := range results {
		r := &results[i]
		items = append(items, Item{
			ID:      r.ID(),
			Type:    r.Type(),
			Score:   r.Score(),
			Label:   r.Label(),
			Content: r.Content(),
			Fields:  r.Fields(),
		})
	}
	return items
}

func (s *Service) recordCompile(zoom, tilt, status string, d time.Duration, complexity int) {
	if s.recorder != nil {
		s.recorder.Compile(zoom, tilt, status, d, complexity)
	}
}

func (s *Service) recordExecute(kind, status string, d time.Duration) {
	if s.recorder != nil {
		s.recorder.Execute(kind, status, d)
	}
}
