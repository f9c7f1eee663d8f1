package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"salesinsight/internal/config"
	"salesinsight/internal/errors"
	"salesinsight/pkg/contracts/domain"
)

// Sheet names of the chart workbook
const (
	SalesOverTimeSheet  = "Sales Over Time"
	RevenueByGroupSheet = "Revenue by Group"
	AccessByTypeSheet   = "Access by Type"
)

const (
	chartAnchor  = "D2"
	chartWidth   = 720
	chartHeight  = 432
	lineColor    = "1F77B4"
	barColor     = "FFA500"
	markerSize   = 6
	percentFmt   = "0.0%"
	dataColWidth = 18
)

// WorkbookRenderer draws every chart on its own sheet of an Excel workbook,
// next to the table it plots. The workbook is written by Save or Close.
type WorkbookRenderer struct {
	path   string
	file   *excelize.File
	sheets int
	charts int
	logger *slog.Logger
}

// NewWorkbookRenderer starts an empty workbook that will be saved at path
func NewWorkbookRenderer(path string, logger *slog.Logger) *WorkbookRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookRenderer{
		path:   path,
		file:   excelize.NewFile(),
		logger: logger.With("component", "workbook_renderer"),
	}
}

// Path returns where the workbook is saved
func (r *WorkbookRenderer) Path() string {
	return r.path
}

// Charts returns the number of charts drawn so far
func (r *WorkbookRenderer) Charts() int {
	return r.charts
}

func (r *WorkbookRenderer) RenderSalesOverTime(ctx context.Context, points []domain.DatePoint) error {
	rows := make([][]interface{}, len(points))
	for i, p := range points {
		rows[i] = []interface{}{formatDate(p.Date), p.Value}
	}
	n, err := r.writeTable(ctx, SalesOverTimeSheet, SalesOverTimeHeaders, rows)
	if err != nil || n == 0 {
		return err
	}

	cats, vals := seriesRefs(SalesOverTimeSheet, n)
	return r.addChart(SalesOverTimeSheet, &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", SalesOverTimeSheet),
			Categories: cats,
			Values:     vals,
			Line:       excelize.ChartLine{Type: excelize.ChartLineSolid, Width: 2},
			Marker: excelize.ChartMarker{
				Symbol: "circle",
				Size:   markerSize,
				Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{lineColor}},
			},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{lineColor}},
		}},
		Title:  []excelize.RichTextRun{{Text: config.SalesOverTimeTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: config.DateAxisLabel}},
			Alignment:      excelize.Alignment{TextRotation: 45},
		},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: config.QuantityAxisLabel}},
		},
	})
}

func (r *WorkbookRenderer) RenderRevenueByGroup(ctx context.Context, values []domain.CategoryValue) error {
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{v.Category, v.Value}
	}
	n, err := r.writeTable(ctx, RevenueByGroupSheet, RevenueByGroupHeaders, rows)
	if err != nil || n == 0 {
		return err
	}

	cats, vals := seriesRefs(RevenueByGroupSheet, n)
	return r.addChart(RevenueByGroupSheet, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", RevenueByGroupSheet),
			Categories: cats,
			Values:     vals,
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{barColor}},
		}},
		Title:  []excelize.RichTextRun{{Text: config.RevenueByGroupTitle}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			Title:     []excelize.RichTextRun{{Text: config.GroupAxisLabel}},
			Alignment: excelize.Alignment{TextRotation: 45},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: config.RevenueAxisLabel}},
		},
	})
}

func (r *WorkbookRenderer) RenderAccessByType(ctx context.Context, counts []domain.CategoryCount) error {
	report := domain.Report{AccessByType: counts}
	rows := make([][]interface{}, len(counts))
	for i, c := range counts {
		rows[i] = []interface{}{c.Category, c.Count, report.Share(c.Category)}
	}
	n, err := r.writeTable(ctx, AccessByTypeSheet, AccessByTypeHeaders, rows)
	if err != nil || n == 0 {
		return err
	}

	varyColors := true
	cats, vals := seriesRefs(AccessByTypeSheet, n)
	return r.addChart(AccessByTypeSheet, &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", AccessByTypeSheet),
			Categories: cats,
			Values:     vals,
		}},
		Title:      []excelize.RichTextRun{{Text: config.AccessByTypeTitle}},
		VaryColors: &varyColors,
		Legend:     excelize.ChartLegend{Position: "right"},
		PlotArea: excelize.ChartPlotArea{
			ShowPercent: true,
			NumFmt:      excelize.ChartNumFmt{CustomNumFmt: percentFmt},
		},
	})
}

// Save writes the workbook to its path
func (r *WorkbookRenderer) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}
	if err := r.file.SaveAs(r.path); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save workbook %s", r.path), err)
	}
	r.logger.Info("Workbook saved",
		slog.String("path", r.path),
		slog.Int("sheets", r.sheets),
		slog.Int("charts", r.charts))
	return nil
}

// Close saves the workbook and releases it
func (r *WorkbookRenderer) Close() error {
	saveErr := r.Save()
	if err := r.file.Close(); err != nil && saveErr == nil {
		return err
	}
	return saveErr
}

// writeTable writes headers and rows to a new sheet and returns the row count.
// The default sheet of a new workbook is reused for the first table.
func (r *WorkbookRenderer) writeTable(ctx context.Context, sheet string, headers []string, rows [][]interface{}) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if r.sheets == 0 {
		if err := r.file.SetSheetName(r.file.GetSheetName(0), sheet); err != nil {
			return 0, fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := r.file.NewSheet(sheet); err != nil {
		return 0, fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	r.sheets++

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := r.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := r.file.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := r.file.SetColWidth(sheet, "A", last, dataColWidth); err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		r.logger.WarnContext(ctx, "series is empty, chart skipped", slog.String("sheet", sheet))
	}
	return len(rows), nil
}

func (r *WorkbookRenderer) addChart(sheet string, chart *excelize.Chart) error {
	chart.Dimension = excelize.ChartDimension{Width: chartWidth, Height: chartHeight}
	if err := r.file.AddChart(sheet, chartAnchor, chart); err != nil {
		return fmt.Errorf("add chart to %s: %w", sheet, err)
	}
	r.charts++
	r.logger.Debug("chart added", slog.String("sheet", sheet))
	return nil
}

// seriesRefs returns the category and value ranges of an n-row table in
// columns A and B
func seriesRefs(sheet string, n int) (string, string) {
	last := n + 1
	return fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
		fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last)
}
