// Package metrics provides Prometheus metrics for smartchat
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Conversation metrics
	TurnsTotal           *prometheus.CounterVec
	ModelRequestDuration *prometheus.HistogramVec
	ModelErrorsTotal     *prometheus.CounterVec

	// Chart metrics
	ChartRendersTotal   *prometheus.CounterVec
	ChartRenderDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetLoadsTotal *prometheus.CounterVec

	// Server metrics
	SessionsActive      prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.TurnsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchat_turns_total",
			Help: "Total number of submitted turns by outcome",
		},
		[]string{"outcome"},
	)

	m.ModelRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartchat_model_request_duration_seconds",
			Help:    "Duration of model requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		},
		[]string{"model"},
	)

	m.ModelErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchat_model_errors_total",
			Help: "Total number of failed model requests by kind",
		},
		[]string{"kind"},
	)

	m.ChartRendersTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchat_chart_renders_total",
			Help: "Total number of chart render attempts",
		},
		[]string{"type", "status"},
	)

	m.ChartRenderDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartchat_chart_render_duration_seconds",
			Help:    "Duration of chart rendering in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	m.DatasetLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchat_dataset_loads_total",
			Help: "Total number of CSV load attempts",
		},
		[]string{"source", "status"},
	)

	m.SessionsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "smartchat_sessions_active",
			Help: "Number of live browser sessions",
		},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartchat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartchat_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	return m
}

// RecordTurn records a finished turn. outcome is one of text, chart,
// chart_error or model_error.
func (m *Metrics) RecordTurn(outcome string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(outcome).Inc()
}

// RecordModelRequest records a model call duration.
func (m *Metrics) RecordModelRequest(model string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ModelRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordModelError records a failed model call.
func (m *Metrics) RecordModelError(kind string) {
	if m == nil {
		return
	}
	m.ModelErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordChartRender records a chart render attempt.
func (m *Metrics) RecordChartRender(chartType string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if chartType == "" {
		chartType = "unknown"
	}
	m.ChartRendersTotal.WithLabelValues(chartType, status(err)).Inc()
	m.ChartRenderDuration.WithLabelValues(chartType).Observe(duration.Seconds())
}

// RecordDatasetLoad records a CSV load attempt.
func (m *Metrics) RecordDatasetLoad(source string, err error) {
	if m == nil {
		return
	}
	m.DatasetLoadsTotal.WithLabelValues(source, status(err)).Inc()
}

// SessionStarted increments the live session gauge.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

// SessionEnded decrements the live session gauge.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}

// RecordHTTPRequest records a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
