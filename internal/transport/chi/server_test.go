package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corpuslens/corpuslens/internal/compiler/render"
	"github.com/corpuslens/corpuslens/internal/domain"
	"github.com/corpuslens/corpuslens/internal/domain/nav"
)

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return er
}

func TestNavigate_OK(t *testing.T) {
	h := newTestHarness(t)
	h.corpus.executeFn = func(_ context.Context, desc *render.QueryDescriptor, _ []float32) ([]nav.Result, int, error) {
		return []nav.Result{
			nav.NewResult("unit-1", "semantic_unit", 0.9, "Arctic melt", "Sea ice extent.", nil),
		}, 1, nil
	}

	rec := postJSON(t, h.router, "/api/v1/navigate",
		`{"zoom":"unit","tilt":"keywords","pan":{"keywords":["arctic"]}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results []struct {
			ID    string  `json:"id"`
			Score float64 `json:"score"`
		} `json:"results"`
		Total int    `json:"total"`
		Kind  string `json:"kind"`
		Zoom  string `json:"zoom"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("total = %d, results = %d", resp.Total, len(resp.Results))
	}
	if resp.Results[0].ID != "unit-1" || resp.Results[0].Score != 0.9 {
		t.Errorf("result = %+v", resp.Results[0])
	}
	if resp.Kind != "select" || resp.Zoom != "unit" {
		t.Errorf("kind = %q, zoom = %q", resp.Kind, resp.Zoom)
	}
}

func TestNavigate_MalformedBody(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(t, h.router, "/api/v1/navigate", `{"zoom":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != codeBadRequest {
		t.Errorf("code = %q", er.Code)
	}
}

func TestNavigate_InvalidRequest(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(t, h.router, "/api/v1/navigate", `{"zoom":"planet","tilt":"keywords"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	er := decodeError(t, rec)
	if er.Code != codeInvalidRequest {
		t.Errorf("code = %q", er.Code)
	}
	if !strings.Contains(er.Message, "zoom") {
		t.Errorf("message %q should name the failing field", er.Message)
	}
}

func TestNavigate_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, codeNotFound},
		{"corpus unavailable", domain.ErrCorpusUnavailable, http.StatusServiceUnavailable, codeCorpusUnavailable},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited},
		{"embedding provider", domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProvider},
		{"invalid execution", domain.ErrInvalidExecution, http.StatusBadRequest, codeInvalidExecution},
		{"not implemented", domain.ErrNotImplemented, http.StatusNotImplemented, codeNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHarness(t)
			h.corpus.executeFn = func(_ context.Context, _ *render.QueryDescriptor, _ []float32) ([]nav.Result, int, error) {
				return nil, 0, fmt.Errorf("store: %w", tt.err)
			}

			rec := postJSON(t, h.router, "/api/v1/navigate", `{"zoom":"unit","tilt":"keywords"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			er := decodeError(t, rec)
			if er.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", er.Code, tt.wantCode)
			}
			// Sentinel messages only, never internal error text.
			if strings.Contains(er.Message, "store:") {
				t.Errorf("message %q leaks internal detail", er.Message)
			}
		})
	}
}

func TestNavigate_UnknownErrorIsInternal(t *testing.T) {
	h := newTestHarness(t)
	h.corpus.executeFn = func(_ context.Context, _ *render.QueryDescriptor, _ []float32) ([]nav.Result, int, error) {
		return nil, 0, errors.New("resp parse blew up")
	}

	rec := postJSON(t, h.router, "/api/v1/navigate", `{"zoom":"unit","tilt":"keywords"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	er := decodeError(t, rec)
	if er.Code != codeInternalError {
		t.Errorf("code = %q", er.Code)
	}
	if er.Message != "internal error" {
		t.Errorf("message = %q, must not leak the cause", er.Message)
	}
}

func TestCompile_OK(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(t, h.router, "/api/v1/navigate/compile",
		`{"zoom":"unit","tilt":"keywords","pan":{"keywords":["arctic"]}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp CompileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Kind != "select" || resp.Zoom != "unit" || resp.Tilt != "keywords" {
		t.Errorf("kind = %q, zoom = %q, tilt = %q", resp.Kind, resp.Zoom, resp.Tilt)
	}
	if resp.Ordering != "label_asc" {
		t.Errorf("ordering = %q", resp.Ordering)
	}
	if resp.Limit != 64 {
		t.Errorf("limit = %d", resp.Limit)
	}
	if len(resp.CacheKey) != 16 {
		t.Errorf("cache key = %q", resp.CacheKey)
	}
	if resp.Query == "" || !strings.Contains(resp.Query, "arctic") {
		t.Errorf("query = %q", resp.Query)
	}
	if len(resp.ScoringWeights) == 0 {
		t.Error("scoring weights missing")
	}
	if len(resp.Filters) != 1 || resp.Filters[0].Dimension != "keywords" {
		t.Errorf("filters = %+v", resp.Filters)
	}
	if resp.GroupBy != "" {
		t.Errorf("select compile should carry no aggregation, got %q", resp.GroupBy)
	}
}

func TestCompile_Aggregate(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(t, h.router, "/api/v1/navigate/compile", `{"zoom":"corpus","tilt":"keywords"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp CompileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Kind != "aggregate" {
		t.Errorf("kind = %q", resp.Kind)
	}
	if resp.GroupBy != "@domain" || len(resp.Reducers) != 2 {
		t.Errorf("groupBy = %q, reducers = %v", resp.GroupBy, resp.Reducers)
	}
}

func TestCompile_InvalidRequest(t *testing.T) {
	h := newTestHarness(t)

	rec := postJSON(t, h.router, "/api/v1/navigate/compile", `{"zoom":"unit","tilt":"psychic"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != codeInvalidRequest {
		t.Errorf("code = %q", er.Code)
	}
}

func TestHealthCheck_OK(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Checks["corpus_store"] != "ok" {
		t.Errorf("checks = %v", body.Checks)
	}
}

func TestHealthCheck_StoreDown(t *testing.T) {
	h := newTestHarness(t)
	h.pinger.pingFn = func(context.Context) error { return errors.New("connection refused") }

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "error" || body.Checks["corpus_store"] != "error" {
		t.Errorf("body = %+v", body)
	}
}

func TestMetricsRoute(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
