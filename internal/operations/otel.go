package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salesinsight/internal/infrastructure"
)

const (
	TracerName = "salesinsight.pipeline"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by providers. A nil providers
// value yields a tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: tracenoop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	tracer := providers.Tracer
	if providers.TracerProvider != nil {
		tracer = providers.TracerProvider.Tracer(TracerName)
	}

	return &OperationTracer{
		tracer:  tracer,
		metrics: metrics,
	}, nil
}

// Metrics returns the pipeline instruments; nil when metrics are off
func (pt *OperationTracer) Metrics() *infrastructure.PipelineMetrics {
	return pt.metrics
}

// TraceOperationExecution creates a span for the entire pipeline run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID string, stepCount int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.Int("operation.step_count", stepCount),
		),
	)
}

// TraceStageExecution creates a span for one step
func (pt *OperationTracer) TraceStageExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStageCompletion records step completion with metrics and span status
func (pt *OperationTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	pt.metrics.RecordStep(ctx, stepID, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	infrastructure.AddSpanEvent(ctx, "step.completed",
		attribute.String("step.id", stepID),
		attribute.Float64("duration", duration.Seconds()),
	)
	span.SetStatus(codes.Ok, "step completed")
}

// RecordOperationCompletion records the run outcome
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, operationID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("operation.status", status),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	pt.metrics.RecordRun(ctx, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "pipeline completed")
}
