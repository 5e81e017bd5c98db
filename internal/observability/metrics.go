package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	jobsCreated     *prometheus.CounterVec
	codeAttempts    prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

// NewMetrics initializes a private registry with the service collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printshop_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "printshop_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printshop_http_errors_total",
			Help: "Error responses by route and error code.",
		}, []string{"route", "method", "error_code"}),
		jobsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printshop_jobs_created_total",
			Help: "Print jobs created by pricing family.",
		}, []string{"family"}),
		codeAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "printshop_job_code_attempts",
			Help:    "Candidates drawn per job code allocation.",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100, 200},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printshop_analytics_cache_lookups_total",
			Help: "Dashboard cache lookups by result.",
		}, []string{"result"}),
	}
	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.errorsTotal,
		m.jobsCreated,
		m.codeAttempts,
		m.cacheLookups,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler returns the exposition handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(route, method, code).Inc()
}

// RecordJobCreated counts a stored job under its pricing family.
func (m *Metrics) RecordJobCreated(family string) {
	if m == nil {
		return
	}
	m.jobsCreated.WithLabelValues(family).Inc()
}

// ObserveCodeAttempts records how many candidates a code allocation needed.
func (m *Metrics) ObserveCodeAttempts(n int) {
	if m == nil {
		return
	}
	m.codeAttempts.Observe(float64(n))
}

// RecordCacheLookup counts a dashboard cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
