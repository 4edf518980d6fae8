package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"centrebooks/pkg/logger"
)

// Logger writes one access line per request. Probe and scrape traffic
// (/health, /metrics) is logged at debug so it does not drown the log.
func Logger(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		fields := []any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, "query", q)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.ByType(gin.ErrorTypeAny).Errors())
		}

		entry := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			entry.Errorw("request", fields...)
		case status >= 400:
			entry.Warnw("request", fields...)
		case isProbe(route):
			entry.Debugw("request", fields...)
		default:
			entry.Infow("request", fields...)
		}
	}
}

func isProbe(route string) bool {
	return strings.HasPrefix(route, "/health/") || route == "/metrics"
}
