package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestIDMaxLen bounds externally supplied request IDs.
const requestIDMaxLen = 64

// RequestID reads X-Request-ID from the request, generates a UUID when
// absent, and echoes it on the response for request tracing.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

// GetRequestID returns the request ID stored in the context.
func GetRequestID(c *gin.Context) string {
	if rid, exists := c.Get(requestIDKey); exists {
		return rid.(string)
	}
	return ""
}
