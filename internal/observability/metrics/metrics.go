// Package metrics exposes Prometheus instruments for the HTTP surface, report
// exports, statement saves and the database pool.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "centrebooks_"

	ResultSuccess = "success"
	ResultError   = "error"
)

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// Metrics holds every instrument on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	statementSaves *prometheus.CounterVec
	loginAttempts  *prometheus.CounterVec
}

// New creates the instruments and registers them together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		exportTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		),
		exportLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		statementSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_saves_total",
				Help: "Total statement writes by action and result",
			},
			[]string{"action", "result"},
		),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "login_attempts_total",
				Help: "Total login attempts by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.exportTotal,
		m.exportLatency,
		m.statementSaves,
		m.loginAttempts,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveExport(format string, err error, elapsed time.Duration) {
	m.exportTotal.WithLabelValues(format, Result(err)).Inc()
	m.exportLatency.WithLabelValues(format).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveStatementSave(action string, err error) {
	m.statementSaves.WithLabelValues(action, Result(err)).Inc()
}

func (m *Metrics) ObserveLogin(err error) {
	m.loginAttempts.WithLabelValues(Result(err)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
