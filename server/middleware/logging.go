package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/errhandling/logger"
)

var healthPaths = []string{"/health", "/alive", "/ready", "/metrics"}

// RequestLogger logs every request with method, path, status and duration.
// Requests that attached errors also log them. Health-check paths are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Get("http")
	}
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.DurationFields(c.Request.Method+" "+c.FullPath(), time.Since(start))
		fields[logger.FieldMethod] = c.Request.Method
		fields[logger.FieldURL] = c.Request.URL.Path
		fields[logger.FieldStatusCode] = status
		if id, ok := c.Get(logger.FieldRequestID); ok {
			fields[logger.FieldRequestID] = id
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.String()
		}

		logByStatus(log, fields, status)
	}
}

func isHealthEndpoint(path string) bool {
	for _, hp := range healthPaths {
		if path == hp || (strings.HasPrefix(path, "/api") && strings.HasSuffix(path, hp)) {
			return true
		}
	}
	return false
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
