package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/normalize"
)

const meterName = "github.com/kbukum/errhandling"

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (development, staging, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	// Metrics are disabled while it is empty.
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// Enabled reports whether an exporter endpoint is configured.
func (c *MeterConfig) Enabled() bool {
	return c.Endpoint != ""
}

// ApplyDefaults fills the export interval.
func (c *MeterConfig) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the export interval.
func (c *MeterConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("metrics.interval must not be negative (got: %s)", c.Interval)
	}
	return nil
}

// MeterOption customizes InitMeter.
type MeterOption func(*meterOptions)

type meterOptions struct {
	exporter sdkmetric.Exporter
}

// WithExporter sends metrics to exp instead of the OTLP endpoint.
func WithExporter(exp sdkmetric.Exporter) MeterOption {
	return func(o *meterOptions) { o.exporter = exp }
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit;
// shutting it down exports whatever the last interval has not.
func InitMeter(ctx context.Context, config *MeterConfig, opts ...MeterOption) (*sdkmetric.MeterProvider, error) {
	var o meterOptions
	for _, opt := range opts {
		opt(&o)
	}

	exporter := o.exporter
	if exporter == nil {
		var err error
		exporter, err = newOTLPExporter(ctx, config)
		if err != nil {
			return nil, err
		}
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

func newOTLPExporter(ctx context.Context, config *MeterConfig) (sdkmetric.Exporter, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	return exporter, nil
}

// Meter returns a named meter from the global provider. An empty name
// returns the library meter.
func Meter(name string) metric.Meter {
	if name == "" {
		name = meterName
	}
	return otel.Meter(name)
}

// Metrics holds the instruments recorded around normalized errors.
type Metrics struct {
	errorTotal      metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	errorTotal, err := meter.Int64Counter("errhandling.errors.total",
		metric.WithDescription("Normalized errors by kind and status code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errhandling.errors.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("errhandling.request.duration",
		metric.WithDescription("Duration of requests that ended in an error, in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errhandling.request.duration histogram: %w", err)
	}

	return &Metrics{errorTotal: errorTotal, requestDuration: requestDuration}, nil
}

// RecordError counts one normalized error seen by component.
func (m *Metrics) RecordError(ctx context.Context, component string, n *normalize.NormalizedError) {
	if m == nil || n == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("kind", n.Kind.String()),
		attribute.String("status_code", strconv.Itoa(n.StatusCode)),
	))
}

// RecordRequest records how long a failed request took.
func (m *Metrics) RecordRequest(ctx context.Context, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("status_code", strconv.Itoa(status)),
	))
}
