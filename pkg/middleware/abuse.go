package middleware

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/internal/abuse"
	"github.com/yeisme/pdfvault/pkg/log"
	"github.com/yeisme/pdfvault/pkg/metrics"
)

// AbuseGuard rejects requests from blocked addresses before any handler runs
// and feeds every response status back into the tracker afterwards. Blocked
// requests never reach a handler, so they cannot deepen the block.
func AbuseGuard(tracker *abuse.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := clientIP(c)

		st := tracker.Check(addr)
		if st.Blocked {
			metrics.BlockedRequests.Inc()

			l := log.Logger()
			l.Warn().Str("client_ip", addr).Dur("retry_after", st.RetryAfter).Msg("Blocked address rejected")

			minutes := int(math.Ceil(st.RetryAfter.Minutes()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf("too many failed requests, try again in %d minutes", minutes),
			})

			return
		}

		c.Next()

		tracker.RecordOutcome(addr, c.Writer.Status())
	}
}
