// Package telemetry provides OpenTelemetry observability for caseforge.
// Telemetry is opt-in: without CASEFORGE_OTEL_ENABLED the Init call is a
// no-op and every record helper silently does nothing.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "caseforge"

// ServiceVersion is populated at build time via ldflags.
var ServiceVersion = "dev"

// Config holds telemetry configuration.
type Config struct {
	// OTLPEndpoint is the OTLP collector endpoint (host:port).
	OTLPEndpoint string

	// Environment is the deployment environment label.
	Environment string

	// Enabled turns the whole pipeline on. Off by default.
	Enabled bool

	// SampleRate is the trace sampling ratio (0.0 to 1.0).
	SampleRate float64
}

// DefaultConfig builds a config from CASEFORGE_OTEL_ENDPOINT,
// CASEFORGE_OTEL_ENABLED and CASEFORGE_ENV.
func DefaultConfig() *Config {
	cfg := &Config{
		OTLPEndpoint: "localhost:4317",
		Environment:  "development",
		SampleRate:   1.0,
	}

	if endpoint := os.Getenv("CASEFORGE_OTEL_ENDPOINT"); endpoint != "" {
		cfg.OTLPEndpoint = endpoint
	}
	if env := os.Getenv("CASEFORGE_ENV"); env != "" {
		cfg.Environment = env
	}
	if enabled := os.Getenv("CASEFORGE_OTEL_ENABLED"); enabled == "true" || enabled == "1" {
		cfg.Enabled = true
	}
	if cfg.Environment == "production" {
		cfg.SampleRate = 0.1
	}

	return cfg
}

// Init wires up the OTLP trace and metric pipelines and registers the
// global providers. The returned shutdown function flushes both.
func Init(ctx context.Context, cfg *Config) (shutdown func(context.Context) error, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
	)

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := initMetrics(); err != nil {
		return nil, fmt.Errorf("initializing metrics: %w", err)
	}

	return func(ctx context.Context) error {
		var errs []error
		if err := tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down tracer provider: %w", err))
		}
		if err := meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down meter provider: %w", err))
		}
		if len(errs) > 0 {
			return fmt.Errorf("telemetry shutdown: %v", errs)
		}
		return nil
	}, nil
}

// MustInit initializes telemetry or panics. For main package use.
func MustInit(ctx context.Context, cfg *Config) func(context.Context) error {
	shutdown, err := Init(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("initializing telemetry: %v", err))
	}
	return shutdown
}

// StartSpan opens a span on the caseforge tracer. With telemetry disabled
// the global provider is a no-op, so callers never need to guard this.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(serviceName).Start(ctx, name)
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}
