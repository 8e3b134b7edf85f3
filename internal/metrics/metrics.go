// Package metrics provides Prometheus metrics collection for the counting station.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// SessionTransitionsTotal tracks count-session state transitions by outcome.
	SessionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conteo_session_transitions_total",
			Help: "Total number of count session transitions",
		},
		[]string{"transition", "status"},
	)

	// ScanResolutionsTotal tracks code resolutions against the active session.
	ScanResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conteo_scan_resolutions_total",
			Help: "Total number of scanned or manual code resolutions",
		},
		[]string{"result"},
	)

	// BackendCallDuration tracks remote inventory backend call duration.
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_call_duration_seconds",
			Help:    "Remote inventory backend call duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"method", "path", "result"},
	)

	// ScannerClientsConnected tracks connected scanner feed clients.
	ScannerClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scanner_clients_connected",
			Help: "Number of scanner devices connected to the decode feed",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordSessionTransition records a count-session transition outcome.
func RecordSessionTransition(transition, status string) {
	SessionTransitionsTotal.WithLabelValues(transition, status).Inc()
}

// RecordScanResolution records a code resolution result.
func RecordScanResolution(result string) {
	ScanResolutionsTotal.WithLabelValues(result).Inc()
}

// RecordBackendCall records a remote backend call.
func RecordBackendCall(method, path string, duration time.Duration, ok bool) {
	result := "error"
	if ok {
		result = "success"
	}
	BackendCallDuration.WithLabelValues(method, path, result).Observe(duration.Seconds())
}
