package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"msg-api/internal/observability"
)

// TokenVerifier is the slice of the session authenticator the middleware
// needs.
type TokenVerifier interface {
	Verify(ctx context.Context, userID int64, deviceID, token string) (bool, error)
}

// SessionAuth validates the user_id, device_id and token headers against the
// session store. A missing header, an unknown session and a wrong token all
// produce the same 401 body so callers cannot probe which sessions exist.
func SessionAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawUserID := c.GetHeader("user_id")
		deviceID := c.GetHeader("device_id")
		token := c.GetHeader("token")

		if rawUserID == "" || deviceID == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		userID, err := strconv.ParseInt(rawUserID, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		ok, err := verifier.Verify(c.Request.Context(), userID, deviceID, token)
		if err != nil {
			observability.IncSessionVerification("error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session verification failed"})
			return
		}
		if !ok {
			observability.IncSessionVerification("rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		observability.IncSessionVerification("ok")

		c.Set("userID", userID)
		c.Set("deviceID", deviceID)
		c.Next()
	}
}
