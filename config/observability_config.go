package config

import (
	"context"
	"errors"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// ObservabilityConfig bundles in-process OpenTelemetry providers for tests.
// Logs are buffered, metrics are read through the ManualReader,
// and spans are captured by the SpanExporter.
type ObservabilityConfig struct {
	LoggerProvider *sdklog.LoggerProvider
	MeterProvider  *sdkmetric.MeterProvider
	MetricReader   *sdkmetric.ManualReader
	TracerProvider *sdktrace.TracerProvider
	SpanExporter   *tracetest.InMemoryExporter
}

// NewTestObservabilityConfig creates providers that keep all telemetry in memory,
// so tests can assert on recorded logs, metrics and spans without a collector.
func NewTestObservabilityConfig() *ObservabilityConfig {
	loggerProvider := sdklog.NewLoggerProvider()

	metricReader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))

	spanExporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))

	return &ObservabilityConfig{
		LoggerProvider: loggerProvider,
		MeterProvider:  meterProvider,
		MetricReader:   metricReader,
		TracerProvider: tracerProvider,
		SpanExporter:   spanExporter,
	}
}

// Shutdown flushes and stops all providers.
func (c *ObservabilityConfig) Shutdown(ctx context.Context) error {
	return errors.Join(
		c.LoggerProvider.Shutdown(ctx),
		c.MeterProvider.Shutdown(ctx),
		c.TracerProvider.Shutdown(ctx),
	)
}
