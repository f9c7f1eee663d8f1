package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"salesinsight/internal/config"
	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/exporter"
	"salesinsight/internal/infrastructure"
)

// LoadStage reads the three datasets
type LoadStage struct {
	BaseStage
	loader  *dataprocessing.Loader
	sources dataprocessing.Sources
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewLoadStage creates the load step
func NewLoadStage(loader *dataprocessing.Loader, sources dataprocessing.Sources, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad, nil),
		loader:    loader,
		sources:   sources,
		metrics:   metrics,
		logger:    stageLogger(logger, StepIDLoad),
	}
}

// Validate requires a path for every dataset
func (s *LoadStage) Validate(state *OperationState) error {
	if s.loader == nil {
		return fmt.Errorf("loader is not configured")
	}
	if s.sources.Sales == "" || s.sources.ProductGroups == "" || s.sources.WebsiteAccess == "" {
		return fmt.Errorf("all three dataset paths are required")
	}
	return nil
}

// Execute loads the datasets and logs their missing values per column
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	tables, err := s.loader.LoadAll(ctx, s.sources)
	if err != nil {
		return err
	}
	state.Data.Raw = tables

	rows := map[string]int{
		config.SalesDataset:         tables.Sales.Nrow(),
		config.ProductGroupDataset:  tables.ProductGroups.Nrow(),
		config.WebsiteAccessDataset: tables.WebsiteAccess.Nrow(),
	}
	state.SetContext(ContextKeyRowsLoaded, rows)

	for table, n := range rows {
		s.metrics.RecordTableRows(ctx, table, StepIDLoad, n)
	}

	s.logMissing(ctx, config.SalesDataset, dataprocessing.MissingValueReport(tables.Sales))
	s.logMissing(ctx, config.ProductGroupDataset, dataprocessing.MissingValueReport(tables.ProductGroups))
	s.logMissing(ctx, config.WebsiteAccessDataset, dataprocessing.MissingValueReport(tables.WebsiteAccess))

	if stepState := state.GetStage(s.ID()); stepState != nil {
		for table, n := range rows {
			stepState.SetMetadata(table+"_rows", n)
		}
	}
	return nil
}

func (s *LoadStage) logMissing(ctx context.Context, table string, report []dataprocessing.ColumnMissing) {
	attrs := make([]any, 0, len(report)+1)
	attrs = append(attrs, slog.String("table", table))
	for _, m := range report {
		attrs = append(attrs, slog.Int(m.Column, m.Missing))
	}
	s.logger.InfoContext(ctx, "missing values per column", attrs...)
}

// CleanStage applies the cleaning policies to every table
type CleanStage struct {
	BaseStage
	cleaner *dataprocessing.Cleaner
	metrics *infrastructure.PipelineMetrics
}

// NewCleanStage creates the clean step
func NewCleanStage(cleaner *dataprocessing.Cleaner, metrics *infrastructure.PipelineMetrics) *CleanStage {
	return &CleanStage{
		BaseStage: NewBaseStage(StepIDClean, StepNameClean, []string{StepIDLoad}),
		cleaner:   cleaner,
		metrics:   metrics,
	}
}

// Validate requires loaded tables
func (s *CleanStage) Validate(state *OperationState) error {
	if state.Data.Raw == nil {
		return fmt.Errorf("no loaded tables")
	}
	return nil
}

// Execute cleans sales, product groups and website access
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	raw := state.Data.Raw

	sales, salesReport, err := s.cleaner.CleanSales(ctx, raw.Sales)
	if err != nil {
		return err
	}
	groups, groupsReport, err := s.cleaner.CleanProductGroups(ctx, raw.ProductGroups)
	if err != nil {
		return err
	}
	access, accessReport, err := s.cleaner.CleanWebsiteAccess(ctx, raw.WebsiteAccess)
	if err != nil {
		return err
	}

	state.Data.Cleaned = tablesOf(sales, groups, access)
	state.Data.CleaningReports = []*dataprocessing.CleaningReport{salesReport, groupsReport, accessReport}
	state.SetContext(ContextKeyCleaningReports, state.Data.CleaningReports)

	for column, n := range salesReport.Imputed {
		s.metrics.RecordImputed(ctx, column, n)
	}
	for _, r := range state.Data.CleaningReports {
		s.metrics.RecordRowsRemoved(ctx, r.Table, "missing", r.MissingDropped)
		s.metrics.RecordRowsRemoved(ctx, r.Table, "duplicate", r.DuplicatesDropped)
		s.metrics.RecordRowsRemoved(ctx, r.Table, "outlier", r.OutliersDropped)
		s.metrics.RecordTableRows(ctx, r.Table, StepIDClean, r.RowsOut)
	}
	return nil
}

// TransformStage decodes the cleaned tables, derives RevenuePerUnit and
// joins sales with product groups
type TransformStage struct {
	BaseStage
	transformer *dataprocessing.Transformer
	metrics     *infrastructure.PipelineMetrics
}

// NewTransformStage creates the transform step
func NewTransformStage(transformer *dataprocessing.Transformer, metrics *infrastructure.PipelineMetrics) *TransformStage {
	return &TransformStage{
		BaseStage:   NewBaseStage(StepIDTransform, StepNameTransform, []string{StepIDClean}),
		transformer: transformer,
		metrics:     metrics,
	}
}

// Validate requires cleaned tables
func (s *TransformStage) Validate(state *OperationState) error {
	if state.Data.Cleaned == nil {
		return fmt.Errorf("no cleaned tables")
	}
	return nil
}

// Execute produces the typed sales, groups, access rows and the join
func (s *TransformStage) Execute(ctx context.Context, state *OperationState) error {
	cleaned := state.Data.Cleaned

	sales, err := dataprocessing.DecodeSales(cleaned.Sales)
	if err != nil {
		return err
	}
	groups, err := dataprocessing.DecodeProductGroups(cleaned.ProductGroups)
	if err != nil {
		return err
	}
	access, err := dataprocessing.DecodeWebsiteAccess(cleaned.WebsiteAccess)
	if err != nil {
		return err
	}

	sales, zero := s.transformer.DeriveRevenuePerUnit(ctx, sales)
	joined := s.transformer.Join(ctx, sales, groups)

	state.Data.Sales = sales
	state.Data.Groups = groups
	state.Data.Access = access
	state.Data.Joined = joined

	state.SetContext(ContextKeyZeroQuantity, zero)
	state.SetContext(ContextKeyUnmatchedSales, dataprocessing.UnmatchedSales(sales, groups))
	s.metrics.RecordZeroQuantity(ctx, zero)
	s.metrics.RecordTableRows(ctx, "sales_with_group", StepIDTransform, len(joined))
	return nil
}

// AggregateStage reduces the transformed rows to the chart series
type AggregateStage struct {
	BaseStage
	aggregator *dataprocessing.Aggregator
}

// NewAggregateStage creates the aggregate step
func NewAggregateStage(aggregator *dataprocessing.Aggregator) *AggregateStage {
	return &AggregateStage{
		BaseStage:  NewBaseStage(StepIDAggregate, StepNameAggregate, []string{StepIDTransform}),
		aggregator: aggregator,
	}
}

// Execute builds the report
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	report := s.aggregator.Aggregate(ctx, state.Data.Sales, state.Data.Joined, state.Data.Access)
	state.Data.Report = &report
	return nil
}

// RenderStage hands the report to the renderer and exports the row tables
type RenderStage struct {
	BaseStage
	renderer     exporter.Renderer
	writer       *exporter.CSVWriter
	exportTables bool
	bom          bool
	logger       *slog.Logger
}

// RenderOptions configures the render step
type RenderOptions struct {
	// Writer exports sales_clean.csv and sales_with_group.csv when ExportTables is set
	Writer       *exporter.CSVWriter
	ExportTables bool
	BOMPrefix    bool
}

// NewRenderStage creates the render step. A renderer that implements
// io.Closer is closed at the end of the step.
func NewRenderStage(renderer exporter.Renderer, opts RenderOptions, logger *slog.Logger) *RenderStage {
	return &RenderStage{
		BaseStage:    NewBaseStage(StepIDRender, StepNameRender, []string{StepIDAggregate}),
		renderer:     renderer,
		writer:       opts.Writer,
		exportTables: opts.ExportTables,
		bom:          opts.BOMPrefix,
		logger:       stageLogger(logger, StepIDRender),
	}
}

// Validate requires a report and a renderer
func (s *RenderStage) Validate(state *OperationState) error {
	if s.renderer == nil {
		return fmt.Errorf("renderer is not configured")
	}
	if state.Data.Report == nil {
		return fmt.Errorf("no report to render")
	}
	return nil
}

// Execute renders the three charts, then writes the row exports
func (s *RenderStage) Execute(ctx context.Context, state *OperationState) error {
	err := exporter.RenderReport(ctx, s.renderer, *state.Data.Report)
	if closer, ok := s.renderer.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	var outputs []string
	if s.exportTables && s.writer != nil {
		if err := s.writer.ExportSales(config.CleanSalesCSV, state.Data.Sales, s.bom); err != nil {
			return err
		}
		if err := s.writer.ExportSalesWithGroup(config.SalesWithGroupCSV, state.Data.Joined, s.bom); err != nil {
			return err
		}
		outputs = append(outputs, config.CleanSalesCSV, config.SalesWithGroupCSV)
	}
	state.Data.Outputs = outputs
	state.SetContext(ContextKeyOutputsWritten, len(outputs))

	s.logger.InfoContext(ctx, "report rendered",
		slog.Int("dates", len(state.Data.Report.SalesOverTime)),
		slog.Int("groups", len(state.Data.Report.RevenueByGroup)),
		slog.Int("access_types", len(state.Data.Report.AccessByType)),
		slog.Int("table_exports", len(outputs)))
	return nil
}

func stageLogger(logger *slog.Logger, step string) *slog.Logger {
	return infrastructure.LoggerOrDefault(logger).With(slog.String("step", step))
}
