// Package metrics provides Prometheus metrics for the scaffolding pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ProjectsTotal *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	TokensTotal   *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ProjectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forge_projects_total",
				Help: "Projects by outcome (submitted, completed, failed).",
			},
			[]string{"outcome"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forge_stage_duration_seconds",
				Help:    "Pipeline stage duration by stage.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
			},
			[]string{"stage"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forge_tokens_total",
				Help: "Model tokens consumed by direction.",
			},
			[]string{"direction"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forge_http_requests_total",
				Help: "HTTP requests by route and status code.",
			},
			[]string{"route", "status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.ProjectsTotal)
	reg.MustRegister(m.StageDuration)
	reg.MustRegister(m.TokensTotal)
	reg.MustRegister(m.HTTPRequests)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ProjectSubmitted counts one accepted submission.
func (m *Metrics) ProjectSubmitted() {
	m.ProjectsTotal.WithLabelValues("submitted").Inc()
}

// ProjectCompleted counts one pipeline that reached completion.
func (m *Metrics) ProjectCompleted() {
	m.ProjectsTotal.WithLabelValues("completed").Inc()
}

// ProjectFailed counts one pipeline that ended in error.
func (m *Metrics) ProjectFailed() {
	m.ProjectsTotal.WithLabelValues("failed").Inc()
}

// StageDurationSeconds records how long a stage ran.
func (m *Metrics) StageDurationSeconds(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// AddTokens records model token usage.
func (m *Metrics) AddTokens(in, out int64) {
	m.TokensTotal.WithLabelValues("input").Add(float64(in))
	m.TokensTotal.WithLabelValues("output").Add(float64(out))
}

// RecordHTTP counts one handled HTTP request.
func (m *Metrics) RecordHTTP(route, status string) {
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}
