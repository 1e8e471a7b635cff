package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
)

// RequestID assigns a unique id to every request, honoring an incoming
// X-Request-ID header so ids survive proxies.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = xid.New().String()
		}

		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
