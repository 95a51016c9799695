// Package metrics exposes service outcome counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeAuth         = "auth_error"
	OutcomeDenied       = "permission_denied"
	OutcomeProvisioning = "provisioning_error"
	OutcomeCompensated  = "compensated"
	OutcomeError        = "error"
	OutcomeExisting     = "existing"
	OutcomeCreated      = "created"
	OutcomeRateLimited  = "rate_limited"
)

// Metrics holds the application's collectors on a private registry so tests
// can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Signups    *prometheus.CounterVec
	Reconciles *prometheus.CounterVec
	Logins     *prometheus.CounterVec
	Writes     *prometheus.CounterVec
}

// New registers the collectors, plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneytracker",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome.",
		}, []string{"outcome"}),
		Reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneytracker",
			Name:      "profile_reconciles_total",
			Help:      "Post-login profile reconciliations by outcome.",
		}, []string{"outcome"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneytracker",
			Name:      "logins_total",
			Help:      "Sign-in attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		Writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "moneytracker",
			Name:      "writes_total",
			Help:      "Owner-scoped writes by resource, operation and outcome.",
		}, []string{"resource", "op", "outcome"}),
	}
	reg.MustRegister(
		m.Signups, m.Reconciles, m.Logins, m.Writes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Write counts one owner-scoped write. A nil receiver is a no-op so
// services can run without metrics.
func (m *Metrics) Write(resource, op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Writes.WithLabelValues(resource, op, outcome).Inc()
}

// Signup counts one signup attempt.
func (m *Metrics) Signup(outcome string) {
	if m != nil {
		m.Signups.WithLabelValues(outcome).Inc()
	}
}

// Reconcile counts one reconciliation.
func (m *Metrics) Reconcile(outcome string) {
	if m != nil {
		m.Reconciles.WithLabelValues(outcome).Inc()
	}
}

// Login counts one sign-in attempt.
func (m *Metrics) Login(method, outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(method, outcome).Inc()
	}
}
