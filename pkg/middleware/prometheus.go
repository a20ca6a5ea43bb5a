package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/metrics"
)

// PrometheusMiddleware records request count and duration per method and path.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		method := c.Request.Method

		c.Next()

		if path == "" {
			// Unmatched routes collapse into one series instead of one per URL.
			path = "unmatched"
		}

		metrics.RequestCounter.WithLabelValues(method, path).Inc()

		duration := time.Since(start).Seconds()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
