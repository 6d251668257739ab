package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the resolution service.
type Metrics struct {
	// HTTP surface
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Resolution pipeline
	Resolutions        *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	FallbackStages     *prometheus.CounterVec

	// Cache
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	CacheEntries prometheus.Gauge

	// Safety
	UnsafeURLs prometheus.Counter

	// System
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates and registers the metrics collectors. Call once per
// process; collectors register against the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webnav_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webnav_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 30, 60},
			},
			[]string{"method", "path"},
		),

		Resolutions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webnav_resolutions_total",
				Help: "Resolution attempts by terminal status",
			},
			[]string{"status"},
		),
		ResolutionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webnav_resolution_duration_seconds",
				Help:    "Live resolution duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
			},
		),
		FallbackStages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webnav_fallback_stages_total",
				Help: "Fallback stage attempts by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),

		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webnav_cache_hits_total",
				Help: "Resolution cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webnav_cache_misses_total",
				Help: "Resolution cache misses",
			},
		),
		CacheEntries: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webnav_cache_entries",
				Help: "Current resolution cache entry count",
			},
		),

		UnsafeURLs: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webnav_unsafe_urls_total",
				Help: "URLs rejected by the safety validator",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "webnav_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
