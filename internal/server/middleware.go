package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathbuddy/internal/logger"
	"github.com/abhisek/mathbuddy/internal/metrics"
)

// requestLogger logs and measures every request once it has finished.
func requestLogger(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		status := c.Writer.Status()
		m.ObserveRequest(route, c.Request.Method, status, latency)

		kv := []any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", latency.Milliseconds(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.String())
		}
		switch {
		case status >= 500:
			log.Error("request failed", kv...)
		case status >= 400:
			log.Warn("request rejected", kv...)
		default:
			log.Debug("request", kv...)
		}
	}
}

// recovery turns panics into the JSON error envelope.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic in handler", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(500, ErrorEnvelope{Error: APIError{Message: "internal server error", Code: "internal"}})
	})
}
