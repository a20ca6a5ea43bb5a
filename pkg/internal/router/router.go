// Package router binds the API routes to the gin engine. Route classes map
// to their rate-limit windows here; handlers come injected from the
// application layer.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/internal/handle"
	"github.com/yeisme/pdfvault/pkg/middleware"
	"github.com/yeisme/pdfvault/pkg/token"
)

// Route classes, used as limiter keys and metric labels.
const (
	ClassGeneral   = "general"
	ClassUpload    = "upload"
	ClassTransform = "transform"
	ClassDownload  = "download"
)

// Register binds all routes under group.
func Register(group *gin.RouterGroup, h *handle.Handler,
	limiter *abuse.WindowLimiter, issuer *token.Issuer,
) {
	cfg := configs.GetConfig()

	general := group.Group("")
	general.Use(middleware.ClassLimit(limiter, ClassGeneral, cfg.RateLimit.General))
	{
		general.GET("/health", h.Health)
		general.GET("/health/storage", h.HealthStorage)
		general.GET("/jobs", h.Jobs)
		general.GET("/files/:fileId", h.FileInfo)
	}

	upload := group.Group("")
	upload.Use(
		middleware.ClassLimit(limiter, ClassUpload, cfg.RateLimit.Upload),
		middleware.SizeSensitiveLimit(limiter, ClassUpload+"-size"),
	)
	{
		upload.POST("/upload", h.Upload)
		upload.POST("/upload/multiple", h.UploadMultiple)
	}

	transform := group.Group("")
	transform.Use(
		middleware.ClassLimit(limiter, ClassTransform, cfg.RateLimit.Transform),
		middleware.SizeSensitiveLimit(limiter, ClassTransform+"-size"),
	)
	{
		transform.POST("/merge", h.Merge)
		transform.POST("/split", h.Split)
		transform.POST("/compress", h.Compress)
		transform.POST("/remove-pages", h.RemovePages)
		transform.POST("/extract-pages", h.ExtractPages)
		transform.POST("/rearrange-pages", h.RearrangePages)
		transform.POST("/rotate-pages", h.RotatePages)
		transform.POST("/watermark", h.Watermark)
		transform.POST("/add-image", h.AddImage)
	}

	download := group.Group("")
	download.Use(middleware.ClassLimit(limiter, ClassDownload, cfg.RateLimit.Download))
	{
		download.POST("/unlock/:fileId", h.Unlock)
		download.GET("/download/:token", middleware.VerifyDownloadToken(issuer), h.Download)
	}
}
