// Package observability wires OpenTelemetry metrics for error handling.
//
// InitMeter installs a global meter provider that exports over OTLP HTTP.
// Metrics records how many errors were normalized, by kind and status, and
// how long the requests that produced them took.
//
//	mp, err := observability.InitMeter(ctx, &cfg.Metrics)
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewMetrics(observability.Meter("errprobe"))
//	m.RecordError(ctx, "fetch", normalized)
package observability
