package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/errhandling/dispatch"
	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/observability"
)

const overridesKey = "errhandling.overrides"

// Option configures the Errors middleware.
type Option func(*settings)

type settings struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

// WithLogger logs errors that could not be dispatched. A nil logger is ignored.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records every handled error and the duration of its request.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// Errors returns middleware that handles the last error attached to the
// context once the rest of the chain has run. The error is dispatched through
// d together with any sets registered by OnError, then answered with
// RespondWithError unless something was already written.
func Errors[T any](d *dispatch.Dispatcher[T], opts ...Option) gin.HandlerFunc {
	s := settings{log: logger.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	log := s.log.WithComponent("server")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err, n := resolve(last.Err)

		if derr := d.Dispatch(err, Overrides[T](c)...); derr != nil {
			log.Warn("error not dispatched", logger.Fields(
				logger.FieldError, derr.Error(),
				logger.FieldURL, c.Request.URL.Path,
			))
		}

		if !c.Writer.Written() {
			writeError(c, n)
		}

		ctx := c.Request.Context()
		s.metrics.RecordError(ctx, "server", n)
		s.metrics.RecordRequest(ctx, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// OnError registers handlers for an error raised later in this request. Sets
// apply in registration order on top of the dispatcher's base set.
func OnError[T any](c *gin.Context, set dispatch.HandlerSet[T]) {
	c.Set(overridesKey, append(Overrides[T](c), set))
}

// Overrides returns the sets registered with OnError for c.
func Overrides[T any](c *gin.Context) []dispatch.HandlerSet[T] {
	v, ok := c.Get(overridesKey)
	if !ok {
		return nil
	}
	sets, _ := v.([]dispatch.HandlerSet[T])
	return sets
}
