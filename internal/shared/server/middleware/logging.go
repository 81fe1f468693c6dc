package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"freeresumetools/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		tool, _ := c.Get(toolKey)
		processingID, _ := c.Get(processingIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":    RequestIDFromContext(c),
			"client_id":     ClientIDFromContext(c),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        status,
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"tool":          tool,
			"processing_id": processingID,
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
