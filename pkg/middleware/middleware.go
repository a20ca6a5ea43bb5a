// Package middleware provides the gin middleware chain of the request gate:
// recovery, CORS, request logging, metrics, the suspicious-activity guard,
// rate limiting and download-token verification. Order matters and is fixed
// by the application wiring, not by this package.
package middleware

import (
	"net"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/configs"
)

// CORSMiddleware allows cross-origin access to the whole API surface. The
// service has no cookie-based auth, so a permissive policy is safe.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}

	config.AllowFiles = true

	if cfg.Debug {
		config.AllowOrigins = nil
		config.AllowAllOrigins = true
	}

	return cors.New(config)
}

// clientIP resolves the client address used as the key for the abuse tracker
// and the rate-limit windows.
func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err == nil {
			ip = host
		} else {
			ip = c.Request.RemoteAddr
		}
	}

	if ip == "" {
		ip = "unknown"
	}

	return ip
}
