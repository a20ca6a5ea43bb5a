// Package api mounts the public route surface onto a gin engine.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/internal/handle"
	"github.com/yeisme/pdfvault/pkg/internal/router"
	"github.com/yeisme/pdfvault/pkg/token"
)

// RegisterGroup binds the API under /api.
func RegisterGroup(e *gin.Engine, h *handle.Handler,
	limiter *abuse.WindowLimiter, issuer *token.Issuer,
) *gin.Engine {
	router.Register(e.Group("/api"), h, limiter, issuer)

	return e
}
