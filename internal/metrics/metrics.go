// Package metrics exposes Prometheus collectors for report activity and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "roi"

	reportsTotal            = "reports_total"
	validationFailuresTotal = "validation_failures_total"
	reportDurationSeconds   = "report_duration_seconds"
	scenariosSavedTotal     = "scenarios_saved_total"
	requestsTotal           = "http_requests_total"
	requestDurationSeconds  = "http_request_duration_seconds"

	tierLabel    = "tier"
	paybackLabel = "payback"
	fieldLabel   = "field"

	PaybackRecoverable    = "recoverable"
	PaybackNotRecoverable = "not_recoverable"
)

// Metrics holds every collector. Build it with New so collectors land on a chosen
// registry.
type Metrics struct {
	registry prometheus.Gatherer

	reports            *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	reportDuration     prometheus.Histogram
	scenariosSaved     prometheus.Counter
	requests           *prometheus.CounterVec
	latency            *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      reportsTotal,
			Help:      "Number of ROI reports assembled, partitioned by tier and payback outcome.",
		}, []string{tierLabel, paybackLabel}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      validationFailuresTotal,
			Help:      "Number of input fields rejected by validation.",
		}, []string{fieldLabel}),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      reportDurationSeconds,
			Help:      "Time spent assembling one report.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05},
		}),
		scenariosSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      scenariosSavedTotal,
			Help:      "Number of scenarios saved.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      requestsTotal,
			Help:      "Number of HTTP requests partitioned by status code, method and route.",
		}, []string{"code", "method", "path"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      requestDurationSeconds,
			Help:      "Time spent on the request partitioned by status code, method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method", "path"}),
	}

	reg.MustRegister(m.reports, m.validationFailures, m.reportDuration, m.scenariosSaved, m.requests, m.latency)
	return m
}

// ObserveReport records one assembled report.
func (m *Metrics) ObserveReport(tier string, recoverable bool, elapsed time.Duration) {
	payback := PaybackNotRecoverable
	if recoverable {
		payback = PaybackRecoverable
	}
	m.reports.With(prometheus.Labels{tierLabel: tier, paybackLabel: payback}).Inc()
	m.reportDuration.Observe(elapsed.Seconds())
}

// ObserveValidationFailures records each rejected field.
func (m *Metrics) ObserveValidationFailures(fields []string) {
	for _, f := range fields {
		m.validationFailures.With(prometheus.Labels{fieldLabel: f}).Inc()
	}
}

// ObserveScenarioSaved records one saved scenario.
func (m *Metrics) ObserveScenarioSaved() {
	m.scenariosSaved.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests and their latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			rp := rctx.RoutePattern()
			code := strconv.Itoa(ww.Status())
			m.requests.WithLabelValues(code, r.Method, rp).Inc()
			m.latency.WithLabelValues(code, r.Method, rp).Observe(time.Since(start).Seconds())
		}
	}
	return http.HandlerFunc(fn)
}
