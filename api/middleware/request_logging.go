package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"brainchat/logger"
)

// RequestLogging emits one structured log record per request with the
// request id set by RequestTrace.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.InfoWithFields("api_request", logger.Fields{
			"method":      method,
			"path":        path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString(ContextKeyRequestID),
		})
	}
}
