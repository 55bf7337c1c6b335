package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Audit writes one log line per successful state-changing request naming the
// acting user and the batch or change it touched.
func Audit(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		user := ""
		if claims := ClaimsFromContext(c); claims != nil {
			user = claims.Username
		}
		fields := []zap.Field{
			zap.String("route", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.String("user", user),
			zap.String("ip", c.ClientIP()),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		}
		for _, key := range []string{"batchId", "id", "changeId"} {
			if value := c.Param(key); value != "" {
				fields = append(fields, zap.String(key, value))
			}
		}
		logger.Info("audit", fields...)
	}
}
