package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voicehealth/backend/internal/logger"
)

// Logger middleware for structured HTTP request logging
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := logger.Ctx(c.Request.Context())
		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("latency", latency),
		}
		if status >= 500 {
			log.Error("request failed", fields...)
		} else {
			log.Info("request completed", fields...)
		}
	}
}
