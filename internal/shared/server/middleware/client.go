package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"freeresumetools/internal/shared/util"
)

const (
	clientIDKey     = "clientId"
	toolKey         = "tool"
	processingIDKey = "processingId"

	clientIDHeader = "X-Client-Id"
	maxClientIDLen = 128
)

// ClientID identifies the caller for submission tracking.
// Browsers send X-Client-Id; everyone else is keyed by a hash of their IP.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(clientIDHeader))
		if len(id) > maxClientIDLen {
			id = id[:maxClientIDLen]
		}
		if id == "" {
			id = "ip:" + util.HashKey(c.ClientIP())[:16]
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

// ClientIDFromContext fetches the client ID set by the ClientID middleware.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// SetTool records the tool a request targets for request logging.
func SetTool(c *gin.Context, tool string) {
	c.Set(toolKey, tool)
}

// SetProcessingID records the webhook processing ID for request logging.
func SetProcessingID(c *gin.Context, id string) {
	c.Set(processingIDKey, id)
}
