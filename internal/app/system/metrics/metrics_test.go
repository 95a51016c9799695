package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := metrics.New()
	m.Signup(metrics.OutcomeOK)
	m.Signup(metrics.OutcomeOK)
	m.Signup(metrics.OutcomeCompensated)
	m.Write("category", "add", nil)
	m.Write("category", "add", errors.New("x"))

	if got := testutil.ToFloat64(m.Signups.WithLabelValues(metrics.OutcomeOK)); got != 2 {
		t.Errorf("signups ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Writes.WithLabelValues("category", "add", metrics.OutcomeError)); got != 1 {
		t.Errorf("writes error = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.Signup(metrics.OutcomeOK)
	m.Reconcile(metrics.OutcomeCreated)
	m.Login("password", metrics.OutcomeOK)
	m.Write("task", "add", nil)
}

func TestHandlerServesRegistry(t *testing.T) {
	m := metrics.New()
	m.Login("password", metrics.OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "moneytracker_logins_total") {
		t.Fatal("logins counter missing from exposition")
	}
}
