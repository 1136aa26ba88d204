// Package telemetry provides OpenTelemetry observability for caseforge
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter is the global meter for caseforge metrics
var meter = otel.Meter("caseforge")

// Attribute keys
const (
	KeyInputType = "caseforge.input_type"
	KeyValid     = "caseforge.valid"
	KeyOutcome   = "caseforge.outcome"
)

// Counter instruments
var (
	generationsCounter        metric.Int64Counter
	casesGeneratedCounter     metric.Int64Counter
	validationFailuresCounter metric.Int64Counter
	exportsCounter            metric.Int64Counter
)

// Histogram instruments
var (
	generationDurationHistogram metric.Float64Histogram
	exportDurationHistogram     metric.Float64Histogram
)

// initMetrics initializes all metric instruments
// Must be called after Init() has set up the global meter provider
func initMetrics() error {
	var err error

	if generationsCounter, err = meter.Int64Counter(
		"caseforge_generations_total",
		metric.WithDescription("Total number of generation pipeline runs"),
		metric.WithUnit("{run}"),
	); err != nil {
		return err
	}

	if casesGeneratedCounter, err = meter.Int64Counter(
		"caseforge_cases_generated_total",
		metric.WithDescription("Total number of test cases produced"),
		metric.WithUnit("{case}"),
	); err != nil {
		return err
	}

	if validationFailuresCounter, err = meter.Int64Counter(
		"caseforge_validation_failures_total",
		metric.WithDescription("Total number of runs whose output failed structural validation"),
		metric.WithUnit("{run}"),
	); err != nil {
		return err
	}

	if exportsCounter, err = meter.Int64Counter(
		"caseforge_exports_total",
		metric.WithDescription("Total number of spreadsheet export attempts"),
		metric.WithUnit("{export}"),
	); err != nil {
		return err
	}

	if generationDurationHistogram, err = meter.Float64Histogram(
		"caseforge_generation_duration_seconds",
		metric.WithDescription("Duration of generation pipeline runs"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if exportDurationHistogram, err = meter.Float64Histogram(
		"caseforge_export_duration_seconds",
		metric.WithDescription("Duration of spreadsheet exports"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	return nil
}

// RecordGeneration records one pipeline run and its case count
func RecordGeneration(ctx context.Context, inputType string, cases int, valid bool) {
	if generationsCounter == nil {
		return
	}
	generationsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(KeyInputType, inputType),
			attribute.Bool(KeyValid, valid),
		),
	)
	if casesGeneratedCounter != nil {
		casesGeneratedCounter.Add(ctx, int64(cases),
			metric.WithAttributes(attribute.String(KeyInputType, inputType)),
		)
	}
	if !valid && validationFailuresCounter != nil {
		validationFailuresCounter.Add(ctx, 1,
			metric.WithAttributes(attribute.String(KeyInputType, inputType)),
		)
	}
}

// RecordGenerationDuration records how long one pipeline run took
func RecordGenerationDuration(ctx context.Context, inputType string, duration time.Duration) {
	if generationDurationHistogram == nil {
		return
	}
	generationDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(KeyInputType, inputType)),
	)
}

// RecordExport records a spreadsheet export attempt
func RecordExport(ctx context.Context, success bool) {
	if exportsCounter == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	exportsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(KeyOutcome, outcome)),
	)
}

// RecordExportDuration records how long an export took
func RecordExportDuration(ctx context.Context, duration time.Duration) {
	if exportDurationHistogram == nil {
		return
	}
	exportDurationHistogram.Record(ctx, duration.Seconds())
}
