package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for employee operations.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// AppMetrics holds the service's Prometheus collectors and the registry they
// are exposed from.
type AppMetrics struct {
	registry           *prometheus.Registry
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	employeeOperations *prometheus.CounterVec
	authOperations     *prometheus.CounterVec
}

// NewAppMetrics registers the collectors on a fresh registry together with
// the Go runtime and process collectors.
func NewAppMetrics() *AppMetrics {
	m := &AppMetrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		employeeOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "employee_operations_total",
				Help: "Total number of employee operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		authOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_operations_total",
				Help: "Total number of register and login attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestTotal,
		m.employeeOperations,
		m.authOperations,
	)
	return m
}

// RecordRequest observes one finished HTTP request.
func (m *AppMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordEmployeeOperation counts one employee workflow call.
func (m *AppMetrics) RecordEmployeeOperation(operation, outcome string) {
	m.employeeOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordAuthOperation counts one register or login attempt.
func (m *AppMetrics) RecordAuthOperation(operation, outcome string) {
	m.authOperations.WithLabelValues(operation, outcome).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *AppMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for the registry.
func (m *AppMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
