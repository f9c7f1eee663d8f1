package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"salesinsight/internal/config"
	"salesinsight/internal/errors"
)

// nanToken is the cell value gota treats as missing
const nanToken = "NaN"

// LoaderOptions controls how source files are read
type LoaderOptions struct {
	Delimiter   rune
	Sheet       string
	NaNValues   []string
	DateLayouts []string
}

// LoaderOptionsFromConfig builds loader options from the application config
func LoaderOptionsFromConfig(cfg *config.Config) LoaderOptions {
	opts := LoaderOptions{
		Delimiter:   ',',
		Sheet:       cfg.Inputs.Sheet,
		NaNValues:   cfg.Cleaning.NaNValues,
		DateLayouts: cfg.Cleaning.DateLayouts,
	}
	if d := []rune(cfg.Inputs.Delimiter); len(d) == 1 {
		opts.Delimiter = d[0]
	}
	return opts
}

// Sources names the three input files of a run
type Sources struct {
	Sales         string
	ProductGroups string
	WebsiteAccess string
}

// Tables holds the three loaded datasets
type Tables struct {
	Sales         dataframe.DataFrame
	ProductGroups dataframe.DataFrame
	WebsiteAccess dataframe.DataFrame
}

// Loader reads tabular sources into dataframes. Row order and column
// names are preserved; missing tokens become gota NaN cells.
type Loader struct {
	logger  *slog.Logger
	opts    LoaderOptions
	missing map[string]struct{}
}

// NewLoader creates a loader. Zero-valued options fall back to the defaults.
func NewLoader(logger *slog.Logger, opts LoaderOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.NaNValues == nil {
		opts.NaNValues = config.DefaultNaNValues
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = config.DefaultDateLayouts
	}

	missing := map[string]struct{}{"": {}, nanToken: {}}
	for _, v := range opts.NaNValues {
		missing[v] = struct{}{}
	}

	return &Loader{
		logger:  logger.With("component", "loader"),
		opts:    opts,
		missing: missing,
	}
}

// Load reads a delimited text file or an Excel workbook. The first row is
// the header. Column types are detected from the values.
func (l *Loader) Load(ctx context.Context, path string) (dataframe.DataFrame, error) {
	return l.load(ctx, path, nil)
}

// LoadSales loads the sales dataset, checks its columns, validates the
// numeric columns and canonicalizes SaleDate.
func (l *Loader) LoadSales(ctx context.Context, path string) (dataframe.DataFrame, error) {
	types := map[string]series.Type{
		config.ColSaleDate:        series.String,
		config.ColProductDetailID: series.String,
		config.ColQuantity:        series.Float,
		config.ColTotalAmount:     series.Float,
	}
	return l.loadDataset(ctx, config.SalesDataset, path, SalesColumns, types, l.prepareSales)
}

// LoadProductGroups loads the product group dataset
func (l *Loader) LoadProductGroups(ctx context.Context, path string) (dataframe.DataFrame, error) {
	types := map[string]series.Type{
		config.ColProductGroupID: series.String,
		config.ColGroupName:      series.String,
	}
	return l.loadDataset(ctx, config.ProductGroupDataset, path, ProductGroupColumns, types, nil)
}

// LoadWebsiteAccess loads the website access dataset
func (l *Loader) LoadWebsiteAccess(ctx context.Context, path string) (dataframe.DataFrame, error) {
	types := map[string]series.Type{
		config.ColAccessType: series.String,
	}
	return l.loadDataset(ctx, config.WebsiteAccessDataset, path, WebsiteAccessColumns, types, nil)
}

// LoadAll loads the three datasets in sequence, stopping at the first failure
func (l *Loader) LoadAll(ctx context.Context, src Sources) (*Tables, error) {
	sales, err := l.LoadSales(ctx, src.Sales)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	groups, err := l.LoadProductGroups(ctx, src.ProductGroups)
	if err != nil {
		return nil, fmt.Errorf("load product groups: %w", err)
	}
	access, err := l.LoadWebsiteAccess(ctx, src.WebsiteAccess)
	if err != nil {
		return nil, fmt.Errorf("load website access: %w", err)
	}
	return &Tables{Sales: sales, ProductGroups: groups, WebsiteAccess: access}, nil
}

type recordsHook func(records [][]string) error

func (l *Loader) loadDataset(ctx context.Context, dataset, path string, required []string, types map[string]series.Type, prepare recordsHook) (dataframe.DataFrame, error) {
	df, err := l.load(ctx, path, func(records [][]string) error {
		if missing := missingColumns(records[0], required); len(missing) > 0 {
			return errors.NewSchemaError(dataset, missing).WithContext("path", path)
		}
		if prepare != nil {
			return prepare(records)
		}
		return nil
	}, dataframe.WithTypes(types))
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("dataset", dataset),
		slog.String("path", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	return df, nil
}

func (l *Loader) load(ctx context.Context, path string, hook recordsHook, extra ...dataframe.LoadOption) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	records, err := l.readRecords(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, errors.NewParsingError(fmt.Sprintf("%s has no header row", path), nil)
	}

	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	for i, name := range records[0] {
		records[0][i] = strings.TrimSpace(name)
	}
	l.markMissing(records)

	if hook != nil {
		if err := hook(records); err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	if len(records) == 1 {
		l.logger.WarnContext(ctx, "source has a header but no rows", slog.String("path", path))
		return emptyFrame(records[0]), nil
	}

	opts := append([]dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{nanToken}),
	}, extra...)

	df := dataframe.LoadRecords(records, opts...)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError(fmt.Sprintf("failed to build table from %s", path), df.Err)
	}
	return df, nil
}

// readRecords returns the raw rows of path, padded to the header width
func (l *Loader) readRecords(path string) ([][]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("source file %s", path))
		}
		return nil, errors.NewStorageError(fmt.Sprintf("cannot access %s", path), err)
	}
	if info.IsDir() {
		return nil, errors.NewStorageError(fmt.Sprintf("%s is a directory", path), nil)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.readWorkbook(path)
	case ".tsv":
		return l.readDelimited(path, '\t')
	default:
		return l.readDelimited(path, l.opts.Delimiter)
	}
}

func (l *Loader) readDelimited(path string, delimiter rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
		}
		records = append(records, rec)
	}
	return normalizeWidth(path, records)
}

func (l *Loader) readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q of %s", sheet, path), err)
	}

	// Drop trailing blank rows left by formatting
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return normalizeWidth(path, rows)
}

// normalizeWidth pads short rows to the header width. Rows wider than the
// header are only accepted when the extra cells are empty.
func normalizeWidth(path string, rows [][]string) ([][]string, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i, row := range rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		case len(row) > width:
			if !isBlankRow(row[width:]) {
				return nil, errors.NewParsingError(
					fmt.Sprintf("%s: row %d has %d fields, header has %d", path, i+1, len(row), width), nil)
			}
			rows[i] = row[:width]
		}
	}
	return rows, nil
}

// markMissing rewrites every missing token to the gota NaN token
func (l *Loader) markMissing(records [][]string) {
	for _, row := range records[1:] {
		for j, cell := range row {
			if _, ok := l.missing[strings.TrimSpace(cell)]; ok {
				row[j] = nanToken
			}
		}
	}
}

// prepareSales validates the numeric columns and canonicalizes SaleDate
func (l *Loader) prepareSales(records [][]string) error {
	header := records[0]
	for _, col := range []string{config.ColQuantity, config.ColTotalAmount} {
		idx := columnIndex(header, col)
		for i, row := range records[1:] {
			v := row[idx]
			if v == nanToken {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return errors.NewParsingError(
					fmt.Sprintf("%s value %q at row %d is not a number", col, v, i+2), err).
					WithContext("column", col).
					WithContext("row", i+2)
			}
			row[idx] = strings.TrimSpace(v)
		}
	}

	idx := columnIndex(header, config.ColSaleDate)
	for i, row := range records[1:] {
		v := row[idx]
		if v == nanToken {
			continue
		}
		ts, err := ParseSaleDate(v, l.opts.DateLayouts)
		if err != nil {
			return errors.NewParsingError(
				fmt.Sprintf("SaleDate value %q at row %d is not a date", v, i+2), err).
				WithContext("column", config.ColSaleDate).
				WithContext("row", i+2)
		}
		row[idx] = FormatSaleDate(ts)
	}
	return nil
}

// emptyFrame builds a zero-row table with the given string columns
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

func missingColumns(header, required []string) []string {
	var missing []string
	for _, col := range required {
		if columnIndex(header, col) < 0 {
			missing = append(missing, col)
		}
	}
	return missing
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Required columns per dataset
var (
	SalesColumns         = []string{config.ColSaleDate, config.ColProductDetailID, config.ColQuantity, config.ColTotalAmount}
	ProductGroupColumns  = []string{config.ColProductGroupID, config.ColGroupName}
	WebsiteAccessColumns = []string{config.ColAccessType}
)

// ParseSaleDate parses value with the first matching layout
func ParseSaleDate(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range layouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no date layouts configured")
	}
	return time.Time{}, lastErr
}

// FormatSaleDate renders a sale timestamp in the canonical layout
func FormatSaleDate(ts time.Time) string {
	return ts.Format(config.DateOutputLayout)
}
