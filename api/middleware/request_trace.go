package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-Id"

// ContextKeyRequestID is the gin context key holding the request id.
const ContextKeyRequestID = "request_id"

// RequestTrace guarantees every inbound request carries a request id,
// reusing the caller's X-Request-Id when present, and echoes it on the
// response so client reports can be correlated with server logs.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Writer.Header().Set(headerRequestID, requestID)

		c.Next()
	}
}
