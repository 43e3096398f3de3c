// Package telemetry exposes Prometheus metrics for order loads, sheet
// generation and the HTTP surface.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load results recorded by ObserveOrderLoad
const (
	LoadOK          = "ok"
	LoadNotFound    = "not_found"
	LoadUnavailable = "unavailable"
	LoadFailed      = "failed"
)

// Config holds metrics configuration
type Config struct {
	Enabled   bool
	Namespace string
	Path      string
	// GoCollectors adds runtime and process collectors to the registry
	GoCollectors bool
	Buckets      []float64
}

// DefaultConfig returns the default metrics configuration
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Namespace:    "prodsheet",
		Path:         "/metrics",
		GoCollectors: true,
		Buckets:      []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}
}

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	orderLoads     *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	sheets         *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderFailures *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	archived       prometheus.Counter
	shareLinks     prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInflight prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "prodsheet"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}
	ns := cfg.Namespace

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		orderLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "order_loads_total",
			Help: "Order and catalog loads by result.",
		}, []string{"result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "order_load_duration_seconds",
			Help:    "Time to fetch an order together with the product catalog.",
			Buckets: cfg.Buckets,
		}),
		sheets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "sheets_generated_total",
			Help: "Production sheets generated by output format.",
		}, []string{"format"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "sheet_render_duration_seconds",
			Help:    "Time spent rendering sheets.",
			Buckets: cfg.Buckets,
		}, []string{"format"}),
		renderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "sheet_render_failures_total",
			Help: "Sheet renders that failed, by error code.",
		}, []string{"code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "pdf_cache_lookups_total",
			Help: "PDF cache lookups by outcome.",
		}, []string{"outcome"}),
		archived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "sheets_archived_total",
			Help: "Sheet PDFs written to the archive.",
		}),
		shareLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "share_links_total",
			Help: "WhatsApp share links built.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: cfg.Buckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: "http", Name: "requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}

	m.registry.MustRegister(
		m.orderLoads, m.loadDuration,
		m.sheets, m.renderDuration, m.renderFailures,
		m.cacheLookups, m.archived, m.shareLinks,
		m.httpRequests, m.httpDuration, m.httpInflight,
	)
	if cfg.GoCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveOrderLoad records one order load.
func (m *Metrics) ObserveOrderLoad(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.orderLoads.WithLabelValues(result).Inc()
	m.loadDuration.Observe(d.Seconds())
}

// ObserveSheet records a generated sheet and how long it took.
func (m *Metrics) ObserveSheet(format string, d time.Duration) {
	if m == nil {
		return
	}
	m.sheets.WithLabelValues(format).Inc()
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

// RenderFailed counts a failed render by error code.
func (m *Metrics) RenderFailed(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.renderFailures.WithLabelValues(code).Inc()
}

// CacheLookup counts a PDF cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// SheetArchived counts one archived PDF.
func (m *Metrics) SheetArchived() {
	if m == nil {
		return
	}
	m.archived.Inc()
}

// ShareLinkBuilt counts one share link.
func (m *Metrics) ShareLinkBuilt() {
	if m == nil {
		return
	}
	m.shareLinks.Inc()
}

// GinMiddleware records request count and latency per route template.
func (m *Metrics) GinMiddleware(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return func(c *gin.Context) {
		if m == nil || skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		start := time.Now()
		m.httpInflight.Inc()
		defer m.httpInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
