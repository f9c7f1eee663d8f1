package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salesinsight/internal/config"
	"salesinsight/pkg/contracts"
)

const (
	ServiceVersion = contracts.Version
	MeterName      = "salesinsight"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "file", "none"
	TraceFile      string
	EnableTracing  bool
	EnableMetrics  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers. Tracer and Meter are
// always usable; they are no-ops when the signal is disabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	traceFile *os.File
}

// DefaultOTelConfig returns a configuration with metrics on and tracing off
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		ServiceName:    config.AppName,
		ServiceVersion: ServiceVersion,
		Environment:    "development",
		TraceExporter:  "none",
		EnableMetrics:  true,
		EnableTracing:  false,
		SampleRatio:    1.0,
	}
}

// OTelConfigFromTelemetry maps the telemetry section of the application
// config. traceFile is the resolved trace output path.
func OTelConfigFromTelemetry(cfg config.TelemetryConfig, traceFile string) *OTelConfig {
	c := DefaultOTelConfig()
	if cfg.ServiceName != "" {
		c.ServiceName = cfg.ServiceName
	}
	if cfg.Environment != "" {
		c.Environment = cfg.Environment
	}
	c.EnableTracing = cfg.EnableTracing && cfg.TraceExporter != "none"
	c.TraceExporter = cfg.TraceExporter
	c.TraceFile = traceFile
	c.EnableMetrics = cfg.EnableMetrics
	return c
}

// InitializeOTel sets up tracing and metrics for one pipeline run
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	logger = LoggerOrDefault(logger)

	ctx := context.Background()

	logger.InfoContext(ctx, "Initializing OpenTelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := createResource(cfg)

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if cfg.EnableTracing {
		if err := initializeTracing(ctx, cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
			providers.Shutdown(ctx)
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
		)
	case "file":
		if cfg.TraceFile == "" {
			return fmt.Errorf("trace exporter %q requires a trace file", cfg.TraceExporter)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, ferr := os.Create(cfg.TraceFile)
		if ferr != nil {
			return fmt.Errorf("failed to create trace file: %w", ferr)
		}
		providers.traceFile = f
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(f))
	case "none", "":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetTracerProvider(tp)

	providers.Logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics wires an OpenTelemetry meter provider to a private
// Prometheus registry. The registry is gathered by WriteMetricsTextfile.
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	otel.SetMeterProvider(mp)

	providers.Logger.InfoContext(ctx, "Metrics initialized",
		slog.String("exporter", "prometheus-textfile"))

	return nil
}

// WriteMetricsTextfile gathers the registry into a Prometheus textfile.
// It must run before Shutdown. A nil registry writes nothing.
func (p *OTelProviders) WriteMetricsTextfile(path string) error {
	if p == nil || p.Registry == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown flushes spans and releases the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceFile = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.DebugContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// TraceIDFromContext extracts the OpenTelemetry trace ID from context
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// AddSpanEvent adds an event to the current span
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() || err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// PipelineMetrics holds the run-level metrics of the pipeline
type PipelineMetrics struct {
	StepsTotal       metric.Int64Counter
	StepDuration     metric.Float64Histogram
	StepErrors       metric.Int64Counter
	TableRows        metric.Int64Gauge
	RowsRemoved      metric.Int64Counter
	ValuesImputed    metric.Int64Counter
	ZeroQuantityRows metric.Int64Counter
	RunDuration      metric.Float64Histogram
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stepsTotal, err := meter.Int64Counter(
		"pipeline_steps_total",
		metric.WithDescription("Total number of pipeline steps executed"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"pipeline_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter(
		"pipeline_step_errors_total",
		metric.WithDescription("Total number of failed pipeline steps"),
	)
	if err != nil {
		return nil, err
	}

	tableRows, err := meter.Int64Gauge(
		"pipeline_table_rows",
		metric.WithDescription("Row count of a table after a pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	rowsRemoved, err := meter.Int64Counter(
		"pipeline_rows_removed_total",
		metric.WithDescription("Rows removed by cleaning, by table and reason"),
	)
	if err != nil {
		return nil, err
	}

	valuesImputed, err := meter.Int64Counter(
		"pipeline_values_imputed_total",
		metric.WithDescription("Missing values replaced by the column mean"),
	)
	if err != nil {
		return nil, err
	}

	zeroQuantity, err := meter.Int64Counter(
		"pipeline_zero_quantity_rows_total",
		metric.WithDescription("Sales rows with a zero quantity when deriving revenue per unit"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StepsTotal:       stepsTotal,
		StepDuration:     stepDuration,
		StepErrors:       stepErrors,
		TableRows:        tableRows,
		RowsRemoved:      rowsRemoved,
		ValuesImputed:    valuesImputed,
		ZeroQuantityRows: zeroQuantity,
		RunDuration:      runDuration,
	}, nil
}

// RecordStep records one step execution
func (m *PipelineMetrics) RecordStep(ctx context.Context, step string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("step", step)}
	status := attribute.String("status", "success")
	if err != nil {
		status = attribute.String("status", "failure")
		m.StepErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	m.StepsTotal.Add(ctx, 1, metric.WithAttributes(append(attrs, status)...))
	m.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(append(attrs, status)...))
}

// RecordTableRows records the row count of table after stage
func (m *PipelineMetrics) RecordTableRows(ctx context.Context, table, stage string, rows int) {
	if m == nil {
		return
	}
	m.TableRows.Record(ctx, int64(rows), metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("stage", stage),
	))
}

// RecordRowsRemoved records rows dropped from table for reason
func (m *PipelineMetrics) RecordRowsRemoved(ctx context.Context, table, reason string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.RowsRemoved.Add(ctx, int64(rows), metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("reason", reason),
	))
}

// RecordImputed records values imputed in column
func (m *PipelineMetrics) RecordImputed(ctx context.Context, column string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ValuesImputed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("column", column)))
}

// RecordZeroQuantity records sales rows whose quantity is zero
func (m *PipelineMetrics) RecordZeroQuantity(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ZeroQuantityRows.Add(ctx, int64(n))
}

// RecordRun records the total run duration
func (m *PipelineMetrics) RecordRun(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}
