package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/pdfvault/pkg/token"
)

// ContextKeyFileID is the gin context key carrying the file id a verified
// download token authorizes.
const ContextKeyFileID = "fileId"

// VerifyDownloadToken verifies the capability token in the :token path
// parameter and stores the authorized file id on the context. Every failure
// reason maps to 401 with its own message.
func VerifyDownloadToken(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("token")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": token.ErrMalformed.Error()})
			return
		}

		fileID, err := issuer.Verify(raw, token.ClassDownload)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextKeyFileID, fileID)
		c.Next()
	}
}
