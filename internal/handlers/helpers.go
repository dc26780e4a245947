package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"msg-api/internal/middleware"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDContextKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDContextKey, requestID)
	return requestID
}

func auditUserID(c *gin.Context) *int64 {
	if val, ok := c.Get("userID"); ok {
		if id, ok := val.(int64); ok && id != 0 {
			return &id
		}
	}
	return nil
}
