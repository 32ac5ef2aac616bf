package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/errhandling/errors"
	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/normalize"
	"github.com/kbukum/errhandling/server"
)

// Recovery recovers from panics in later handlers. A panic value that is a
// recognized error is answered through server.RespondWithError; anything else
// becomes a 500. The error is attached to the context either way, so an outer
// server.Errors middleware still dispatches it.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Get("http")
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log.Error("panic recovered", logger.Fields(
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				logger.FieldMethod, c.Request.Method,
				logger.FieldURL, c.Request.URL.Path,
			))

			err, ok := rec.(error)
			if !ok || !normalize.IsGeneric(err) {
				err = apperrors.Internal(fmt.Errorf("panic: %v", rec))
			}
			_ = c.Error(err)
			server.RespondWithError(c, err)
		}()
		c.Next()
	}
}
