package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/metrics"
)

// RateLimitMiddleware is an optional global token-bucket throttle in front of
// the per-class fixed windows. Disabled by default.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// ClassLimit enforces a fixed-window budget for one route class, keyed by
// client address. Rejections carry the window end as retryAfter.
func ClassLimit(limiter *abuse.WindowLimiter, class string, cfg configs.WindowConfig) gin.HandlerFunc {
	lim := abuse.Limit{Window: cfg.GetWindow(), Max: cfg.MaxRequests}

	return func(c *gin.Context) {
		key := clientIP(c) + "|" + class

		d := limiter.Allow(key, lim)
		if !d.Allowed {
			metrics.RateLimited.WithLabelValues(class).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests, please try again later",
				"retryAfter": d.ResetAt.Format(time.RFC3339),
			})

			return
		}

		c.Next()
	}
}

// SizeSensitiveLimit enforces the payload-size-dependent hourly budget on
// resource-heavy routes. The budget is resolved per request from the declared
// payload size; all tiers count against the same window.
func SizeSensitiveLimit(limiter *abuse.WindowLimiter, class string) gin.HandlerFunc {
	return func(c *gin.Context) {
		size := c.Request.ContentLength
		if size < 0 {
			size = 0
		}

		lim := abuse.SizeLimit(size)
		key := clientIP(c) + "|" + class

		d := limiter.Allow(key, lim)
		if !d.Allowed {
			metrics.RateLimited.WithLabelValues(class).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests, please try again later",
				"retryAfter": d.ResetAt.Format(time.RFC3339),
			})

			return
		}

		c.Next()
	}
}
