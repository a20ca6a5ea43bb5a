// Package handle implements the HTTP request handlers.
package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/apperr"
	"github.com/yeisme/pdfvault/pkg/internal/model"
	"github.com/yeisme/pdfvault/pkg/internal/service"
	"github.com/yeisme/pdfvault/pkg/internal/types"
	"github.com/yeisme/pdfvault/pkg/log"
	"github.com/yeisme/pdfvault/pkg/rule"
	"github.com/yeisme/pdfvault/pkg/scheduler"
	"github.com/yeisme/pdfvault/pkg/token"
)

// Handler carries the service collaborators of the HTTP layer.
type Handler struct {
	vault      *service.Vault
	transforms *service.TransformService
	issuer     *token.Issuer
	sched      *scheduler.Scheduler
	started    time.Time
}

// New creates a Handler.
func New(vault *service.Vault, transforms *service.TransformService,
	issuer *token.Issuer, sched *scheduler.Scheduler,
) *Handler {
	return &Handler{
		vault:      vault,
		transforms: transforms,
		issuer:     issuer,
		sched:      sched,
		started:    time.Now(),
	}
}

// renderError maps a service error to its HTTP status. Unclassified errors
// become an opaque 500; the cause goes to the log, never to the client.
func renderError(c *gin.Context, err error) {
	if ae, ok := apperr.As(err); ok {
		if ae.Status() >= http.StatusInternalServerError {
			l := log.Logger()
			l.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		}

		c.JSON(ae.Status(), gin.H{"error": ae.Message})

		return
	}

	l := log.Logger()
	l.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// bind decodes the JSON body into req and runs rule validation.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		l := log.Logger()
		l.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})

		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}

	return true
}

func fileResponse(rec *model.FileRecord) types.FileResponse {
	return types.FileResponse{
		FileID:       rec.FileID,
		OriginalName: rec.OriginalName,
		Size:         rec.Size,
	}
}

func fileResponses(recs []*model.FileRecord) []types.FileResponse {
	out := make([]types.FileResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fileResponse(rec))
	}

	return out
}
