package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects API metrics on its own registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	throttledTotal  prometheus.Counter
	plansTotal      prometheus.Counter
	targetsScored   prometheus.Counter
	planTargets     prometheus.Histogram
}

// NewMetrics creates and registers the API metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skyplan_request_duration_seconds",
				Help:    "Time spent processing API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skyplan_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"route", "method", "code"},
		),
		throttledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyplan_requests_throttled_total",
			Help: "Requests rejected by the per-client rate limit",
		}),
		plansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyplan_plans_total",
			Help: "Session plans computed",
		}),
		targetsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyplan_targets_scored_total",
			Help: "Targets run through the feasibility scorer",
		}),
		planTargets: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skyplan_plan_targets",
			Help:    "Number of targets per computed plan",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.throttledTotal,
		m.plansTotal,
		m.targetsScored,
		m.planTargets,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest records one finished request.
func (m *Metrics) RecordRequest(route, method string, code int, duration time.Duration) {
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
}

// RecordPlan records a computed plan and the targets it scored.
func (m *Metrics) RecordPlan(targets int) {
	m.plansTotal.Inc()
	m.planTargets.Observe(float64(targets))
	m.targetsScored.Add(float64(targets))
}

// RecordScored records targets scored outside of planning.
func (m *Metrics) RecordScored(targets int) {
	m.targetsScored.Add(float64(targets))
}

// middleware labels requests by chi route pattern so path parameters do
// not explode label cardinality.
func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.RecordRequest(route, r.Method, code, time.Since(start))
	})
}
