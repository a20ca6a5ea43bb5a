// Package metrics provides Prometheus metrics for the service: HTTP request
// vectors plus domain counters for the file lifecycle and the abuse guard.
package metrics

import (
	"net/http"
	_ "net/http/pprof" // registers pprof endpoints on the default mux

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/pdfvault/pkg/configs"
)

var (
	// RequestCounter counts HTTP requests by method and endpoint.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration observes HTTP request durations.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// FilesStored counts file records created, by origin (upload or transform).
	FilesStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_files_stored_total",
			Help: "Total number of file records created",
		},
		[]string{"origin"},
	)

	// FilesSwept counts files deleted by the retention sweeper.
	FilesSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_files_swept_total",
			Help: "Total number of expired files deleted by the sweeper",
		},
	)

	// Downloads counts completed download streams.
	Downloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_downloads_total",
			Help: "Total number of file downloads served",
		},
	)

	// Transforms counts document transform invocations by operation.
	Transforms = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_transforms_total",
			Help: "Total number of document transform operations",
		},
		[]string{"operation"},
	)

	// BlockedRequests counts requests rejected by the suspicious-activity guard.
	BlockedRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "abuse_blocked_requests_total",
			Help: "Total number of requests rejected from blocked addresses",
		},
	)

	// RateLimited counts requests rejected by the fixed-window limiter, by class.
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abuse_rate_limited_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"class"},
	)

	registry = prometheus.NewRegistry()
)

// InitMetrics registers collectors on the registry.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(
		RequestCounter, RequestDuration,
		FilesStored, FilesSwept, Downloads, Transforms,
		BlockedRequests, RateLimited,
	)

	return nil
}

// StartMetricsServer mounts the /metrics endpoint (and pprof when enabled).
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry returns the Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return registry
}
