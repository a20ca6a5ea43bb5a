package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports service liveness and uptime.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthStorage verifies the blob store answers a listing.
func (h *Handler) HealthStorage(c *gin.Context) {
	if _, err := h.vault.Blobs().List(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"component": "storage", "status": "unhealthy", "error": err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "storage", "status": "ok"})
}

// Jobs reports the state of the background jobs.
func (h *Handler) Jobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.sched.GetJobInfos()})
}
