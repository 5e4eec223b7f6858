// Package chi is the HTTP transport: navigation endpoints, health, and
// metrics over the go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/corpuslens/corpuslens/internal/compiler"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
	logpkg "github.com/corpuslens/corpuslens/internal/logger"
	healthuc "github.com/corpuslens/corpuslens/internal/usecase/health"
	navigateuc "github.com/corpuslens/corpuslens/internal/usecase/navigate"
)

// Error response codes returned to clients.
const (
	codeBadRequest        = "bad_request"
	codeInvalidRequest    = "invalid_request"
	codeNotFound          = "not_found"
	codeCorpusUnavailable = "corpus_unavailable"
	codeRateLimited       = "rate_limited"
	codeEmbeddingProvider = "embedding_provider_error"
	codeNotImplemented    = "not_implemented"
	codeInvalidExecution  = "invalid_execution"
	codeInternalError     = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the navigation API.
type Server struct {
	navigate      *navigateuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(navigate *navigateuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		navigate: navigate,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, codeCorpusUnavailable),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrInvalidExecution, http.StatusBadRequest, codeInvalidExecution),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, codeNotImplemented),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/navigate", s.Navigate)
	r.Post("/api/v1/navigate/compile", s.Compile)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Navigate handles POST /api/v1/navigate: compile and execute.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var req nav.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.navigate.Navigate(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CompileResponse is the dry-run compilation payload: the descriptor plus
// the filter plan, without touching the corpus.
type CompileResponse struct {
	Query                string             `json:"query"`
	Kind                 string             `json:"kind"`
	Zoom                 string             `json:"zoom"`
	Tilt                 string             `json:"tilt"`
	Ordering             string             `json:"ordering"`
	Limit                int                `json:"limit"`
	ReturnFields         []string           `json:"returnFields"`
	GroupBy              string             `json:"groupBy,omitempty"`
	Reducers             []string           `json:"reducers,omitempty"`
	CacheKey             string             `json:"cacheKey"`
	Complexity           int                `json:"complexity"`
	EstimatedResultCount int                `json:"estimatedResultCount"`
	EstimatedSelectivity float64            `json:"estimatedSelectivity"`
	Filters              []CompiledFilter   `json:"filters,omitempty"`
	ScoringWeights       map[string]float64 `json:"scoringWeights"`
	Warnings             []string           `json:"warnings,omitempty"`
}

// CompiledFilter summarizes one compiled pan dimension.
type CompiledFilter struct {
	Dimension   string   `json:"dimension"`
	Strategy    string   `json:"strategy"`
	Selectivity float64  `json:"selectivity"`
	Expansions  []string `json:"expansions,omitempty"`
}

// Compile handles POST /api/v1/navigate/compile: dry-run compilation.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var req nav.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	out, err := s.navigate.Compile(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, compileResponseFrom(out))
}

func compileResponseFrom(out compiler.Output) CompileResponse {
	desc := out.Descriptor

	resp := CompileResponse{
		Query:                desc.RenderedQuery,
		Kind:                 string(desc.Kind),
		Zoom:                 desc.ZoomLevel.String(),
		Tilt:                 out.Parameters.Tilt().Representation.String(),
		Ordering:             string(desc.OrderingKey),
		Limit:                desc.ResultLimit,
		ReturnFields:         desc.ReturnFields,
		CacheKey:             desc.CacheKey,
		Complexity:           desc.Metadata.Complexity,
		EstimatedResultCount: desc.Metadata.EstimatedResultCount,
		EstimatedSelectivity: desc.Metadata.EstimatedSelectivity,
		ScoringWeights:       desc.Scoring.Weights,
		Warnings:             out.Warnings,
	}
	if desc.Aggregation != nil {
		resp.GroupBy = desc.Aggregation.GroupBy
		resp.Reducers = desc.Aggregation.Reducers
	}
	for _, f := range out.Filters {
		resp.Filters = append(resp.Filters, CompiledFilter{
			Dimension:   string(f.Dimension),
			Strategy:    f.StrategyUsed,
			Selectivity: f.Selectivity,
			Expansions:  f.Expansions,
		})
	}
	return resp
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrCorpusUnavailable,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrInvalidExecution,
		domain.ErrNotImplemented,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler handles validation failures, passing the field
// errors through to the client.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logpkg.FromContext(r.Context(), s.logger)
	lg.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	lg.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
