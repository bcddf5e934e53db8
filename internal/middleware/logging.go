package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/join-board/internal/logger"
)

// RequestLogger logs every served request with its status and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		durationMs := float64(time.Since(start).Nanoseconds()) / 1e6

		if len(c.Errors) > 0 {
			log.Errorw("HTTP request failed",
				"method", c.Request.Method,
				"path", path,
				"status_code", c.Writer.Status(),
				"duration_ms", durationMs,
				"ip", c.ClientIP(),
				"error", c.Errors.String(),
			)
			return
		}
		log.LogHTTPRequest(c.Request.Method, path, c.ClientIP(), c.Writer.Status(), durationMs)
	}
}
