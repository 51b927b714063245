package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the Gin context key holding the per-request correlation ID.
const RequestIDKey = "request_id"

// RequestID assigns a correlation ID to every request. An incoming
// X-Request-ID header is honored so upstream proxies can trace end to end;
// otherwise a fresh UUID is generated. The ID is echoed back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
