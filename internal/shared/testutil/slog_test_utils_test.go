package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		if handler.Count() != 2 {
			t.Errorf("Expected 2 records, got %d", handler.Count())
		}
		if !handler.ContainsMessage("test message") {
			t.Error("Expected to find 'test message'")
		}
		if !handler.ContainsAttr("key", "value") {
			t.Error("Expected to find attribute key=value")
		}
		if !handler.ContainsAttr("code", 500) {
			t.Error("Expected int attribute to match")
		}
	})

	t.Run("keeps attributes from With", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With("component", "cleaner").Info("sales cleaned", slog.Int("rows_out", 4))
		logger.Info("plain")

		rec, ok := handler.FindMessage("sales cleaned")
		if !ok {
			t.Fatal("Expected to find 'sales cleaned'")
		}
		if rec.Attrs["component"] != "cleaner" {
			t.Errorf("Expected component=cleaner, got %v", rec.Attrs["component"])
		}

		plain, _ := handler.FindMessage("plain")
		if _, ok := plain.Attrs["component"]; ok {
			t.Error("Parent logger should not carry child attributes")
		}
	})

	t.Run("filters by level and clears", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if n := len(handler.GetRecordsByLevel(slog.LevelInfo)); n != 1 {
			t.Errorf("Expected 1 info record, got %d", n)
		}
		AssertLogContains(t, handler, slog.LevelWarn, "warn")

		handler.Clear()
		if handler.Count() != 0 {
			t.Errorf("Expected 0 records after clear, got %d", handler.Count())
		}
		AssertNoErrors(t, handler)
	})

	t.Run("thread safety", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.With("worker", n).Info("concurrent log")
			}(i)
		}
		wg.Wait()

		if handler.Count() != 10 {
			t.Errorf("Expected 10 records from concurrent logging, got %d", handler.Count())
		}
	})
}

func TestFixtureWriters(t *testing.T) {
	dir := WriteDatasets(t, DefaultDatasets())

	for _, name := range []string{"sales.csv", "product_group.csv", "website_access.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	path := WriteWorkbook(t, t.TempDir(), "sales.xlsx", SalesRows())
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != len(SalesRows()) {
		t.Errorf("Expected %d rows, got %d", len(SalesRows()), len(rows))
	}
	if rows[0][0] != "SaleDate" {
		t.Errorf("Expected header SaleDate, got %q", rows[0][0])
	}
}
