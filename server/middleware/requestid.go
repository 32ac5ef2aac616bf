package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/errhandling/httpclient"
	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/validation"
)

const maxRequestIDLength = 128

// RequestID injects a unique X-Request-Id header into every request/response.
// The ID is also stored in the context under logger.FieldRequestID. A client
// ID that is too long or carries characters outside [A-Za-z0-9._:-] is
// replaced, since it is echoed into logs and upstream requests.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(httpclient.HeaderRequestID)
		if id == "" || !validRequestID(id) {
			id = uuid.New().String()
		}
		c.Set(logger.FieldRequestID, id)
		c.Header(httpclient.HeaderRequestID, id)
		c.Next()
	}
}

func validRequestID(id string) bool {
	return !validation.New().
		MaxLength("request_id", id, maxRequestIDLength).
		Pattern("request_id", id, `^[A-Za-z0-9._:-]+$`).
		HasErrors()
}
