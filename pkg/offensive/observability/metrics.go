package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records assertion chain metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCheck records a settled chain with its duration and outcome.
	RecordCheck(ctx context.Context, errorName string, success bool, duration time.Duration)

	// RecordAbort records an evaluation cut short by an unsatisfiable precondition.
	RecordAbort(ctx context.Context, operation string)

	// RecordStructuralError records a malformed chain.
	RecordStructuralError(ctx context.Context, operation string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	checks           metric.Int64Counter
	failures         metric.Int64Counter
	checkLatency     metric.Float64Histogram
	aborts           metric.Int64Counter
	structuralErrors metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.GetMeterProvider())
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on the given provider.
func newOtelMetrics(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter("offensive")

	checks, err := meter.Int64Counter("offensive.check.evaluations",
		metric.WithDescription("Number of settled assertion chains"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("offensive.check.failures",
		metric.WithDescription("Number of assertion chains that failed"),
	)
	if err != nil {
		return nil, err
	}

	checkLatency, err := meter.Float64Histogram("offensive.check.latency_ms",
		metric.WithDescription("Assertion chain latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	aborts, err := meter.Int64Counter("offensive.check.aborts",
		metric.WithDescription("Number of evaluations cut short by a failed precondition"),
	)
	if err != nil {
		return nil, err
	}

	structuralErrors, err := meter.Int64Counter("offensive.check.structural_errors",
		metric.WithDescription("Number of malformed assertion chains"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		checks:           checks,
		failures:         failures,
		checkLatency:     checkLatency,
		aborts:           aborts,
		structuralErrors: structuralErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderWithProvider returns a MetricsRecorder bound to provider
// instead of the global one.
func NewMetricsRecorderWithProvider(provider metric.MeterProvider) (MetricsRecorder, error) {
	return newOtelMetrics(provider)
}

// RecordCheck records a settled chain.
func (m *otelMetrics) RecordCheck(ctx context.Context, errorName string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("error_name", errorName),
		attribute.Bool("success", success),
	)
	m.checks.Add(ctx, 1, attrs)
	m.checkLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if !success {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("error_name", errorName)))
	}
}

// RecordAbort records an aborted evaluation.
func (m *otelMetrics) RecordAbort(ctx context.Context, operation string) {
	m.aborts.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

// RecordStructuralError records a malformed chain.
func (m *otelMetrics) RecordStructuralError(ctx context.Context, operation string) {
	m.structuralErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}
