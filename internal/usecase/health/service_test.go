package health

import (
	"context"
	"errors"
	"testing"
)

// mockPinger implements StorePinger for tests.
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// mockChecker implements EmbeddingChecker for tests.
type mockChecker struct {
	checkFn func(ctx context.Context) error
}

func (m *mockChecker) HealthCheck(ctx context.Context) error {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return nil
}

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %q", report.Status)
	}
	if report.Checks["corpus_store"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("checks = %v", report.Checks)
	}
}

func TestCheck_StoreDown(t *testing.T) {
	svc := New(&mockPinger{pingFn: func(context.Context) error {
		return errors.New("connection refused")
	}}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Unhealthy {
		t.Errorf("status = %q", report.Status)
	}
	if report.Checks["corpus_store"] != CheckError {
		t.Errorf("checks = %v", report.Checks)
	}
	if report.Checks["embedding"] != CheckOK {
		t.Errorf("checks = %v", report.Checks)
	}
}

func TestCheck_EmbeddingDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{checkFn: func(context.Context) error {
		return errors.New("401 unauthorized")
	}})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %q", report.Status)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("checks = %v", report.Checks)
	}
}

func TestCheck_NoEmbeddingConfigured(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %q", report.Status)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("embedding check present without a provider")
	}
}
