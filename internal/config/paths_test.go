package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Inputs.SalesFile = "in/sales.xlsx"
	cfg.Telemetry.TraceFile = DefaultTraceFile

	paths := ResolvePaths(base, cfg)

	assert.Equal(t, filepath.Join(base, DefaultDataDir), paths.DataDir)
	assert.Equal(t, filepath.Join(base, DefaultOutputDir), paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "in", "sales.xlsx"), paths.SalesFile)
	assert.Empty(t, paths.ProductGroupFile)
	assert.Equal(t, filepath.Join(base, DefaultOutputDir, DefaultWorkbookName), paths.WorkbookFile)
	assert.Equal(t, filepath.Join(base, DefaultOutputDir, DefaultMetricsFile), paths.MetricsFile)
	assert.Equal(t, filepath.Join(base, DefaultOutputDir, DefaultTraceFile), paths.TraceFile)
	assert.Equal(t, filepath.Join(base, DefaultLogsDir), paths.LogsDir)
}

func TestResolvePathsKeepsAbsolute(t *testing.T) {
	abs := t.TempDir()
	cfg := Default()
	cfg.Output.Dir = abs

	paths := ResolvePaths("/somewhere/else", cfg)

	assert.Equal(t, abs, paths.OutputDir)
	assert.Equal(t, filepath.Join(abs, "x.csv"), paths.GetOutputPath("x.csv"))
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := ResolvePaths(base, Default())

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.OutputDir)
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.DataDir)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}
