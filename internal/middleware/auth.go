package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalTokenHeader = "x-internal-api-auth-token" //nolint:gosec // header name, not a credential

// timingSafeCompare compares two tokens in constant time
func timingSafeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// InternalAPIAuthMiddleware validates the internal API token carried by
// trusted callers (the web frontend's backend, cron, operators)
func InternalAPIAuthMiddleware(validToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(internalTokenHeader)

		if token == "" || !timingSafeCompare(token, validToken) {
			logger.Warn("Invalid internal API token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing internal API token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
