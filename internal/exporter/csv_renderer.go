package exporter

import (
	"context"
	"log/slog"

	"salesinsight/internal/config"
	"salesinsight/pkg/contracts/domain"
)

// Column headers of the series exports
var (
	SalesOverTimeHeaders  = []string{config.DateAxisLabel, config.QuantityAxisLabel}
	RevenueByGroupHeaders = []string{config.GroupAxisLabel, config.RevenueAxisLabel}
	AccessByTypeHeaders   = []string{config.ColAccessType, "Count", "Share"}
)

// CSVRenderer writes each chart series as a CSV file in the output directory
type CSVRenderer struct {
	writer *CSVWriter
	bom    bool
	logger *slog.Logger
}

// NewCSVRenderer creates a renderer writing through w
func NewCSVRenderer(w *CSVWriter, bom bool, logger *slog.Logger) *CSVRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVRenderer{writer: w, bom: bom, logger: logger.With("component", "csv_renderer")}
}

func (r *CSVRenderer) RenderSalesOverTime(ctx context.Context, points []domain.DatePoint) error {
	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{formatDate(p.Date), formatFloat(p.Value)}
	}
	return r.write(ctx, config.SalesOverTimeCSV, SalesOverTimeHeaders, records)
}

func (r *CSVRenderer) RenderRevenueByGroup(ctx context.Context, values []domain.CategoryValue) error {
	records := make([][]string, len(values))
	for i, v := range values {
		records[i] = []string{v.Category, formatMoney(v.Value)}
	}
	return r.write(ctx, config.RevenueByGroupCSV, RevenueByGroupHeaders, records)
}

func (r *CSVRenderer) RenderAccessByType(ctx context.Context, counts []domain.CategoryCount) error {
	report := domain.Report{AccessByType: counts}
	records := make([][]string, len(counts))
	for i, c := range counts {
		records[i] = []string{c.Category, formatInt(int64(c.Count)), formatPercent(report.Share(c.Category))}
	}
	return r.write(ctx, config.AccessByTypeCSV, AccessByTypeHeaders, records)
}

func (r *CSVRenderer) write(ctx context.Context, name string, headers []string, records [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.writer.WriteSimpleCSV(name, headers, records, r.bom); err != nil {
		return err
	}
	r.logger.DebugContext(ctx, "series exported", slog.String("file", name), slog.Int("rows", len(records)))
	return nil
}
