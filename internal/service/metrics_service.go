package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the gateway's Prometheus registry. It instruments the
// inbound HTTP surface, calls to the upstream exam platform, catalog refresh
// outcomes, and the report cache.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	catalogRefresh    *prometheus.CounterVec
	reportCacheHits   prometheus.Counter
	reportCacheMisses prometheus.Counter
}

// NewMetricsService registers the gateway collectors on a private registry so
// the /metrics endpoint never leaks default-registry noise from libraries.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of calls to the exam platform API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	catalogRefresh := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_refresh_total",
		Help: "Catalog snapshot refreshes by entity and outcome",
	}, []string{"entity", "outcome"})

	reportCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_hits_total",
		Help: "Report responses served from Redis",
	})

	reportCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_cache_misses_total",
		Help: "Report responses fetched from the upstream API",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, catalogRefresh, reportCacheHits, reportCacheMisses, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		upstreamDuration:  upstreamDuration,
		catalogRefresh:    catalogRefresh,
		reportCacheHits:   reportCacheHits,
		reportCacheMisses: reportCacheMisses,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records an inbound request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstreamRequest records a call to the exam platform. A zero status
// means the transport failed before a response arrived.
func (m *MetricsService) ObserveUpstreamRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// CatalogRefresh counts a refresh attempt per entity.
func (m *MetricsService) CatalogRefresh(entity string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.catalogRefresh.WithLabelValues(entity, outcome).Inc()
}

// RecordReportCache counts a report-cache lookup.
func (m *MetricsService) RecordReportCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.reportCacheHits.Inc()
		return
	}
	m.reportCacheMisses.Inc()
}
