package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Datasets holds the raw rows of the three sources, header first
type Datasets struct {
	Sales         [][]string
	ProductGroups [][]string
	WebsiteAccess [][]string
}

// SalesRows is a small sales table with one missing quantity, one exact
// duplicate and one TotalAmount outlier
func SalesRows() [][]string {
	return [][]string{
		{"SaleDate", "ProductDetailID", "Quantity", "TotalAmount"},
		{"2024-01-01 09:15:00", "1", "2", "20"},
		{"2024-01-01 09:15:00", "1", "2", "20"},
		{"2024-01-01 17:40:00", "2", "1", "12"},
		{"2024-01-02", "3", "", "11"},
		{"2024-01-02 11:00:00", "2", "3", "13"},
		{"2024-01-03", "1", "4", "1000"},
		{"2024-01-03", "9", "1", "15"},
	}
}

// ProductGroupRows maps products 1-3 to groups, with an incomplete row and
// a duplicate
func ProductGroupRows() [][]string {
	return [][]string{
		{"ProductGroupID", "GroupName"},
		{"1", "Electronics"},
		{"2", "Books"},
		{"2", "Books"},
		{"3", "Garden"},
		{"4", ""},
	}
}

// WebsiteAccessRows has three access types with a missing value
func WebsiteAccessRows() [][]string {
	return [][]string{
		{"AccessType", "UserID"},
		{"Guest", "10"},
		{"Member", "11"},
		{"Guest", "12"},
		{"Admin", "13"},
		{"NA", "14"},
		{"Guest", "10"},
	}
}

// DefaultDatasets returns the canonical fixture datasets
func DefaultDatasets() Datasets {
	return Datasets{
		Sales:         SalesRows(),
		ProductGroups: ProductGroupRows(),
		WebsiteAccess: WebsiteAccessRows(),
	}
}

// WriteCSV writes rows to dir/name and returns the path
func WriteCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteWorkbook writes rows to the first sheet of dir/name and returns the path
func WriteWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
	return path
}

// WriteDatasets writes the datasets as sales.csv, product_group.csv and
// website_access.csv in a fresh temp directory and returns it
func WriteDatasets(t *testing.T, d Datasets) string {
	t.Helper()

	dir := t.TempDir()
	WriteCSV(t, dir, "sales.csv", d.Sales)
	WriteCSV(t, dir, "product_group.csv", d.ProductGroups)
	WriteCSV(t, dir, "website_access.csv", d.WebsiteAccess)
	return dir
}
