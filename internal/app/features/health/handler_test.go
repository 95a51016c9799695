package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/health"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/memdoc"
	"go.uber.org/zap"
)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	health.Routes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return rec, resp
}

func TestServe_DatabaseConnected(t *testing.T) {
	rec, resp := serve(t, health.NewHandler(memdoc.New(), "memory", zap.NewNop()))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp["status"] != "ok" || resp["database"] != "connected" || resp["backend"] != "memory" {
		t.Errorf("resp = %v", resp)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	rec, resp := serve(t, health.NewHandler(downStore{}, "mongo", zap.NewNop()))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if resp["status"] != "error" || resp["message"] != "Database unavailable" {
		t.Errorf("resp = %v", resp)
	}
	if _, leaked := resp["error"]; leaked {
		t.Error("raw error text exposed")
	}
}
