package dispatch

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/normalize"
)

// Outcome labels the routing decision of one Dispatch call.
type Outcome string

const (
	OutcomeStatus       Outcome = "status"
	OutcomeDefault      Outcome = "default"
	OutcomeUnhandled    Outcome = "unhandled"
	OutcomeUnrecognized Outcome = "unrecognized"
)

// MetricDispatchTotal is the counter incremented once per Dispatch call.
const MetricDispatchTotal = "errhandling.dispatch.total"

// Option configures a Dispatcher.
type Option func(*settings)

type settings struct {
	log   *logger.Logger
	meter metric.Meter
}

// WithLogger sets the logger used for routing decisions (debug level).
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMeter enables the dispatch counter on the given meter.
func WithMeter(m metric.Meter) Option {
	return func(s *settings) {
		s.meter = m
	}
}

// Dispatcher routes error values to handlers. It is safe for concurrent use:
// the base set is copied at construction and never written afterwards.
type Dispatcher[T any] struct {
	base    HandlerSet[T]
	log     *logger.Logger
	counter metric.Int64Counter
}

// New returns a Dispatcher whose base handlers are a copy of base.
func New[T any](base HandlerSet[T], opts ...Option) *Dispatcher[T] {
	s := &settings{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	d := &Dispatcher[T]{
		base: Merge(base, HandlerSet[T]{}),
		log:  s.log.WithComponent("dispatch"),
	}
	if s.meter != nil {
		counter, err := s.meter.Int64Counter(MetricDispatchTotal,
			metric.WithDescription("Error dispatches by outcome and status code"),
		)
		if err != nil {
			d.log.Warn("dispatch counter disabled", logger.ErrorFields("create_counter", err))
		} else {
			d.counter = counter
		}
	}
	return d
}

// Base returns a copy of the base handler set.
func (d *Dispatcher[T]) Base() HandlerSet[T] {
	return Merge(d.base, HandlerSet[T]{})
}

// Dispatch normalizes raw and invokes at most one handler from the base set
// merged with overrides, applied in order. The handler registered for the
// status code wins; otherwise Default runs. With neither, nothing happens.
//
// An unrecognized value is returned as a *normalize.UnrecognizedShapeError
// carrying raw. Handler panics are not recovered.
func (d *Dispatcher[T]) Dispatch(raw any, overrides ...HandlerSet[T]) error {
	set := d.base
	for _, o := range overrides {
		set = Merge(set, o)
	}

	n, err := normalize.Normalize(raw)
	if err != nil {
		d.record(normalize.KindInvalid, OutcomeUnrecognized, 0)
		d.log.Debug("unrecognized error value", logger.Fields("type", fmt.Sprintf("%T", raw)))
		return err
	}

	data, err := normalize.DataAs[T](n)
	if err != nil {
		d.log.Debug("error data does not decode, passing zero value",
			logger.ErrorFields("decode_data", err))
	}

	if n.HasStatus() {
		if h, ok := set.lookup(n.StatusCode); ok {
			d.routed(n, OutcomeStatus)
			if h != nil {
				h(data, raw)
			}
			return nil
		}
	}

	if set.Default == nil {
		d.routed(n, OutcomeUnhandled)
		return nil
	}
	d.routed(n, OutcomeDefault)
	set.Default(data, raw)
	return nil
}

// Handle dispatches raw with the base handlers only. It panics with raw
// itself when raw is not a recognized error value.
func (d *Dispatcher[T]) Handle(raw any) {
	if err := d.Dispatch(raw); err != nil {
		panic(raw)
	}
}

func (d *Dispatcher[T]) routed(n *normalize.NormalizedError, outcome Outcome) {
	d.record(n.Kind, outcome, n.StatusCode)
	d.log.Debug("error dispatched", logger.Fields(
		logger.FieldKind, n.Kind.String(),
		logger.FieldStatusCode, n.StatusCode,
		logger.FieldOutcome, string(outcome),
	))
}

func (d *Dispatcher[T]) record(kind normalize.Kind, outcome Outcome, code int) {
	if d.counter == nil {
		return
	}
	status := ""
	if code != 0 {
		status = strconv.Itoa(code)
	}
	d.counter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(logger.FieldKind, kind.String()),
		attribute.String(logger.FieldOutcome, string(outcome)),
		attribute.String(logger.FieldStatusCode, status),
	))
}
