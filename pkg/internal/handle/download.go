package handle

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/configs"
	"github.com/yeisme/pdfvault/pkg/internal/types"
	"github.com/yeisme/pdfvault/pkg/metrics"
	"github.com/yeisme/pdfvault/pkg/middleware"
	"github.com/yeisme/pdfvault/pkg/token"
)

// Unlock exchanges a reward acknowledgement for a download token bound to
// one file. The file must still exist; tokens are never issued for ids the
// vault cannot resolve.
func (h *Handler) Unlock(c *gin.Context) {
	fileID := c.Param("fileId")

	var req types.UnlockRequest
	if !bind(c, &req) {
		return
	}

	if !req.AdWatched {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ad must be watched to unlock the download"})
		return
	}

	if !h.vault.Exists(c.Request.Context(), fileID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found or has expired"})
		return
	}

	ttl := configs.GetConfig().Token.GetDownloadTTL()

	signed, err := h.issuer.Issue(fileID, token.ClassDownload, ttl)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.UnlockResponse{
		Token:     signed,
		ExpiresIn: int(ttl.Seconds()),
	})
}

// Download streams the file a verified token authorizes. Token verification
// happened in middleware; expiry of the file itself is still checked here,
// a valid token never resurrects a swept file.
func (h *Handler) Download(c *gin.Context) {
	fileID := c.GetString(middleware.ContextKeyFileID)

	rc, rec, err := h.vault.Resolve(c.Request.Context(), fileID)
	if err != nil {
		renderError(c, err)
		return
	}
	defer rc.Close()

	name := rec.OriginalName
	if name == "" {
		name = rec.StoredName
	}

	contentType := rec.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	metrics.Downloads.Inc()

	c.DataFromReader(http.StatusOK, rec.Size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}

// FileInfo returns the metadata record for a file id.
func (h *Handler) FileInfo(c *gin.Context) {
	rec, err := h.vault.Describe(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}
