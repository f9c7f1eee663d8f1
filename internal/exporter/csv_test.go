package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/config"
	"salesinsight/pkg/contracts/domain"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{
		BaseDir:   tempDir,
		OutputDir: filepath.Join(tempDir, "output"),
	}, nil)
	return writer, tempDir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths, nil)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, filePath string)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Date", "Quantity Sold"},
				Records: [][]string{
					{"2024-01-01", "3"},
					{"2024-01-02", "5.5"},
				},
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Len(t, lines, 3)
				assert.Equal(t, "Date,Quantity Sold", lines[0])
				assert.Equal(t, "2024-01-01,3", lines[1])
				assert.Equal(t, "2024-01-02,5.5", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Product Group", "Total Revenue"},
				Records:   [][]string{{"Books", "25.00"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, filePath string) {
				content, err := os.ReadFile(filePath)
				require.NoError(t, err)

				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "Product Group,Total Revenue", lines[0])
				assert.Equal(t, "Books,25.00", lines[1])
			},
		},
		{
			name:     "write without headers",
			filePath: "test_no_headers.csv",
			options: WriteOptions{
				Records: [][]string{{"Data1", "Data2"}, {"Data3", "Data4"}},
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Len(t, lines, 2)
				assert.Equal(t, "Data1,Data2", lines[0])
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, filePath string) {
				lines := readLines(t, filePath)
				assert.Equal(t, []string{"Col1,Col2"}, lines)
			},
		},
		{
			name:     "nested directory",
			filePath: filepath.Join("series", "nested.csv"),
			options: WriteOptions{
				Headers: []string{"A"},
				Records: [][]string{{"1"}},
			},
			validate: func(t *testing.T, filePath string) {
				assert.Equal(t, []string{"A", "1"}, readLines(t, filePath))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			tt.validate(t, filepath.Join(tempDir, "output", tt.filePath))
		})
	}
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	require.NoError(t, writer.WriteSimpleCSV("append.csv", []string{"Name", "Count"}, [][]string{{"Guest", "2"}}, true))
	require.NoError(t, writer.AppendToCSV("append.csv", [][]string{{"Member", "1"}}))

	lines := readLines(t, filepath.Join(tempDir, "output", "append.csv"))
	assert.Equal(t, []string{"Name,Count", "Guest,2", "Member,1"}, lines)
}

func TestCSVWriter_ResolvePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	abs := filepath.Join(tempDir, "elsewhere", "file.csv")

	assert.Equal(t, abs, writer.resolvePath(abs))
	assert.Equal(t, filepath.Join(tempDir, "output", "file.csv"), writer.resolvePath("file.csv"))

	bare := NewCSVWriter(nil, nil)
	assert.Equal(t, "file.csv", bare.resolvePath("file.csv"))
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	headers := []string{"GroupName", "Notes"}
	records := [][]string{
		{"Books, Used", "Description with \"quotes\""},
		{"Électronique", "Notes with\nnewlines"},
	}
	require.NoError(t, writer.WriteSimpleCSV("special_chars.csv", headers, records, true))

	file, err := os.Open(filepath.Join(tempDir, "output", "special_chars.csv"))
	require.NoError(t, err)
	defer file.Close()

	bom := make([]byte, 3)
	_, err = file.Read(bom)
	require.NoError(t, err)

	all, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{headers}, records...), all)
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"A", "B"}, false)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	assert.Equal(t, 2, stream.Rows())
	require.NoError(t, stream.Close())

	assert.Equal(t, []string{"A,B", "1,2", "3,4"}, readLines(t, filepath.Join(tempDir, "output", "stream.csv")))
}

func TestCSVWriter_ErrorScenarios(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// output directory is a regular file
	writer := NewCSVWriter(&config.Paths{OutputDir: blocker}, nil)

	err := writer.WriteCSV("test.csv", WriteOptions{Headers: []string{"Test"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to")

	_, err = writer.CreateStreamWriter("test.csv", []string{"Test"}, false)
	assert.Error(t, err)
}

func TestCSVWriter_ExportSales(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	sales := []domain.Sale{
		{
			SaleDate:        time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC),
			ProductDetailID: "1",
			Quantity:        2,
			TotalAmount:     20,
			RevenuePerUnit:  10,
		},
		{
			ProductDetailID: "2",
			Quantity:        0,
			TotalAmount:     5,
			RevenuePerUnit:  math.Inf(1),
		},
	}

	require.NoError(t, writer.ExportSales(config.CleanSalesCSV, sales, false))
	lines := readLines(t, filepath.Join(tempDir, "output", config.CleanSalesCSV))
	assert.Equal(t, []string{
		"SaleDate,ProductDetailID,Quantity,TotalAmount,RevenuePerUnit",
		"2024-01-01T09:15:00,1,2,20,10",
		",2,0,5,+Inf",
	}, lines)

	joined := []domain.SaleWithGroup{{Sale: sales[0], ProductGroupID: "1", GroupName: "Electronics"}}
	require.NoError(t, writer.ExportSalesWithGroup(config.SalesWithGroupCSV, joined, true))
	lines = readLines(t, filepath.Join(tempDir, "output", config.SalesWithGroupCSV))
	assert.Equal(t, []string{
		"SaleDate,ProductDetailID,Quantity,TotalAmount,RevenuePerUnit,ProductGroupID,GroupName",
		"2024-01-01T09:15:00,1,2,20,10,1,Electronics",
	}, lines)
}

// BenchmarkCSVWriter_WriteCSV tests CSV writing performance
func BenchmarkCSVWriter_WriteCSV(b *testing.B) {
	writer := NewCSVWriter(&config.Paths{OutputDir: b.TempDir()}, nil)
	records := make([][]string, 1000)
	for i := range records {
		records[i] = []string{"2024-01-01", "1", "2", "20", "10"}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := writer.WriteSimpleCSV("bench.csv", SalesHeaders, records, false); err != nil {
			b.Fatal(err)
		}
	}
}
