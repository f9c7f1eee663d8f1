package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"salesinsight/internal/config"
	"salesinsight/internal/errors"
)

// CleanerOptions holds the outlier policy
type CleanerOptions struct {
	IQRMultiplier float64
	LowerQuantile float64
	UpperQuantile float64
}

// DefaultCleanerOptions returns the 1.5*IQR quartile policy
func DefaultCleanerOptions() CleanerOptions {
	return CleanerOptions{
		IQRMultiplier: config.DefaultIQRMultiplier,
		LowerQuantile: config.DefaultLowerQuantile,
		UpperQuantile: config.DefaultUpperQuantile,
	}
}

// CleanerOptionsFromConfig maps the cleaning section of the config
func CleanerOptionsFromConfig(cfg config.CleaningConfig) CleanerOptions {
	return CleanerOptions{
		IQRMultiplier: cfg.IQRMultiplier,
		LowerQuantile: cfg.LowerQuantile,
		UpperQuantile: cfg.UpperQuantile,
	}
}

// CleaningReport summarizes what cleaning did to one table
type CleaningReport struct {
	Table             string         `json:"table"`
	RowsIn            int            `json:"rows_in"`
	RowsOut           int            `json:"rows_out"`
	Imputed           map[string]int `json:"imputed,omitempty"`
	MissingDropped    int            `json:"missing_dropped"`
	DuplicatesDropped int            `json:"duplicates_dropped"`
	OutliersDropped   int            `json:"outliers_dropped"`
	Bounds            *OutlierBounds `json:"bounds,omitempty"`
}

// ColumnMissing is the number of missing cells in one column
type ColumnMissing struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// Cleaner applies the missing-value, duplicate and outlier policies.
// Every method returns a new table and leaves its input untouched.
type Cleaner struct {
	logger *slog.Logger
	opts   CleanerOptions
}

// NewCleaner creates a cleaner. A non-positive multiplier selects the defaults.
func NewCleaner(logger *slog.Logger, opts CleanerOptions) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.IQRMultiplier <= 0 {
		opts = DefaultCleanerOptions()
	}
	return &Cleaner{
		logger: logger.With("component", "cleaner"),
		opts:   opts,
	}
}

// MissingValueReport counts missing cells per column, in column order
func MissingValueReport(df dataframe.DataFrame) []ColumnMissing {
	names := df.Names()
	report := make([]ColumnMissing, 0, len(names))
	for _, name := range names {
		n := 0
		for _, na := range df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		report = append(report, ColumnMissing{Column: name, Missing: n})
	}
	return report
}

// ImputeMean replaces missing values of each column with the mean of that
// column's present values. All means are taken from the input table. A
// column without any present value is left as is.
func (c *Cleaner) ImputeMean(df dataframe.DataFrame, cols ...string) (dataframe.DataFrame, map[string]int, error) {
	if err := requireColumns(df, "table", cols); err != nil {
		return df, nil, err
	}

	imputed := make(map[string]int, len(cols))
	out := df
	for _, name := range cols {
		values := df.Col(name).Float()
		mean, count := Mean(values)
		if count == 0 {
			c.logger.Warn("column has no values to impute from", slog.String("column", name))
			continue
		}

		filled := make([]float64, len(values))
		n := 0
		for i, v := range values {
			if math.IsNaN(v) {
				filled[i] = mean
				n++
				continue
			}
			filled[i] = v
		}
		imputed[name] = n
		if n == 0 {
			continue
		}

		out = out.Mutate(series.New(filled, series.Float, name))
		if out.Err != nil {
			return df, nil, fmt.Errorf("impute %s: %w", name, out.Err)
		}
		c.logger.Debug("imputed missing values",
			slog.String("column", name),
			slog.Int("count", n),
			slog.Float64("mean", mean))
	}
	return out, imputed, nil
}

// DropMissing removes rows with a missing value in any column
func (c *Cleaner) DropMissing(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	nrow := df.Nrow()
	drop := make([]bool, nrow)
	for _, name := range df.Names() {
		for i, na := range df.Col(name).IsNaN() {
			if na {
				drop[i] = true
			}
		}
	}

	keep := make([]int, 0, nrow)
	for i, d := range drop {
		if !d {
			keep = append(keep, i)
		}
	}
	return subset(df, keep), nrow - len(keep)
}

// DropDuplicates removes rows equal in every column to an earlier row.
// Cells compare by typed value and two missing cells are equal.
func (c *Cleaner) DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	nrow := df.Nrow()
	names := df.Names()
	keys := make([][]string, len(names))
	for j, name := range names {
		keys[j] = cellKeys(df.Col(name))
	}

	seen := make(map[string]struct{}, nrow)
	keep := make([]int, 0, nrow)
	var b strings.Builder
	for i := 0; i < nrow; i++ {
		b.Reset()
		for j := range names {
			b.WriteString(keys[j][i])
			b.WriteByte(0x1f)
		}
		k := b.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return subset(df, keep), nrow - len(keep)
}

// FilterOutliers keeps the rows whose value in col lies within the IQR
// bounds of col. Bounds are computed once on the input table. Rows with a
// missing value are kept, and so is every row when col has no values.
func (c *Cleaner) FilterOutliers(df dataframe.DataFrame, col string) (dataframe.DataFrame, OutlierBounds, int, error) {
	if err := requireColumns(df, "table", []string{col}); err != nil {
		return df, OutlierBounds{}, 0, err
	}

	values := df.Col(col).Float()
	bounds := ComputeBounds(values, c.opts.LowerQuantile, c.opts.UpperQuantile, c.opts.IQRMultiplier)
	if !bounds.Valid {
		return df, bounds, 0, nil
	}

	keep := make([]int, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || bounds.Contains(v) {
			keep = append(keep, i)
		}
	}
	return subset(df, keep), bounds, len(values) - len(keep), nil
}

// CleanSales imputes Quantity and TotalAmount with their means, removes
// duplicate rows and filters TotalAmount outliers, in that order.
func (c *Cleaner) CleanSales(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, *CleaningReport, error) {
	if err := requireColumns(df, config.SalesDataset, SalesColumns); err != nil {
		return df, nil, err
	}
	report := &CleaningReport{Table: config.SalesDataset, RowsIn: df.Nrow()}

	out, imputed, err := c.ImputeMean(df, config.ColQuantity, config.ColTotalAmount)
	if err != nil {
		return df, nil, fmt.Errorf("clean sales: %w", err)
	}
	report.Imputed = imputed

	out, report.DuplicatesDropped = c.DropDuplicates(out)

	out, bounds, dropped, err := c.FilterOutliers(out, config.ColTotalAmount)
	if err != nil {
		return df, nil, fmt.Errorf("clean sales: %w", err)
	}
	report.OutliersDropped = dropped
	report.Bounds = &bounds
	report.RowsOut = out.Nrow()

	attrs := []any{
		slog.String("table", report.Table),
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int("imputed_quantity", imputed[config.ColQuantity]),
		slog.Int("imputed_total_amount", imputed[config.ColTotalAmount]),
		slog.Int("duplicates_dropped", report.DuplicatesDropped),
		slog.Int("outliers_dropped", report.OutliersDropped),
	}
	if bounds.Valid {
		attrs = append(attrs,
			slog.Float64("q1", bounds.Q1),
			slog.Float64("q3", bounds.Q3),
			slog.Float64("lower_bound", bounds.Lower),
			slog.Float64("upper_bound", bounds.Upper))
	}
	c.logger.InfoContext(ctx, "sales cleaned", attrs...)

	return out, report, nil
}

// CleanProductGroups drops incomplete rows, then duplicates
func (c *Cleaner) CleanProductGroups(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, *CleaningReport, error) {
	return c.cleanComplete(ctx, config.ProductGroupDataset, ProductGroupColumns, df)
}

// CleanWebsiteAccess drops incomplete rows, then duplicates
func (c *Cleaner) CleanWebsiteAccess(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, *CleaningReport, error) {
	return c.cleanComplete(ctx, config.WebsiteAccessDataset, WebsiteAccessColumns, df)
}

func (c *Cleaner) cleanComplete(ctx context.Context, table string, required []string, df dataframe.DataFrame) (dataframe.DataFrame, *CleaningReport, error) {
	if err := requireColumns(df, table, required); err != nil {
		return df, nil, err
	}
	report := &CleaningReport{Table: table, RowsIn: df.Nrow()}

	out, dropped := c.DropMissing(df)
	report.MissingDropped = dropped
	out, report.DuplicatesDropped = c.DropDuplicates(out)
	report.RowsOut = out.Nrow()

	c.logger.InfoContext(ctx, "table cleaned",
		slog.String("table", table),
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int("missing_dropped", report.MissingDropped),
		slog.Int("duplicates_dropped", report.DuplicatesDropped))

	return out, report, nil
}

// subset returns the rows at idx in order
func subset(df dataframe.DataFrame, idx []int) dataframe.DataFrame {
	if len(idx) == df.Nrow() {
		return df
	}
	return df.Subset(idx)
}

// cellKeys renders each cell of s as a type-tagged comparison key
func cellKeys(s series.Series) []string {
	n := s.Len()
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		e := s.Elem(i)
		if e.IsNA() {
			keys[i] = "\x00"
			continue
		}
		switch s.Type() {
		case series.Float:
			keys[i] = "f" + strconv.FormatFloat(e.Float(), 'g', -1, 64)
		case series.Int:
			v, _ := e.Int()
			keys[i] = "i" + strconv.Itoa(v)
		case series.Bool:
			v, _ := e.Bool()
			keys[i] = "b" + strconv.FormatBool(v)
		default:
			keys[i] = "s" + e.String()
		}
	}
	return keys
}

func requireColumns(df dataframe.DataFrame, table string, cols []string) error {
	if df.Err != nil {
		return errors.NewParsingError(fmt.Sprintf("%s table is invalid", table), df.Err)
	}
	missing := missingColumns(df.Names(), cols)
	if len(missing) > 0 {
		return errors.NewSchemaError(table, missing)
	}
	return nil
}
