package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/metrics"
)

// RequestLogger logs each request with structured fields and records the
// request duration metric.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		userID := ""
		if claims := Identity(c); claims != nil {
			userID = claims.UserID()
		}

		log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("user_id", userID),
			zap.String("remote_addr", c.ClientIP()),
		)

		metrics.RecordRequest(c.Request.Method, path, strconv.Itoa(status), duration.Seconds())
	}
}
