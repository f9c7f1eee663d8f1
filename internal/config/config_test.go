package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salesreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultDataDir, cfg.Inputs.DataDir)
	assert.Equal(t, ",", cfg.Inputs.Delimiter)
	assert.Equal(t, []string{FormatXLSX, FormatCSV}, cfg.Output.Formats)
	assert.Equal(t, DefaultWorkbookName, cfg.Output.WorkbookName)
	assert.Equal(t, 1.5, cfg.Cleaning.IQRMultiplier)
	assert.Equal(t, 0.25, cfg.Cleaning.LowerQuantile)
	assert.Equal(t, 0.75, cfg.Cleaning.UpperQuantile)
	assert.Contains(t, cfg.Cleaning.NaNValues, "NA")
	assert.NotEmpty(t, cfg.Cleaning.DateLayouts)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultDoesNotShareSlices(t *testing.T) {
	cfg := Default()
	cfg.Cleaning.NaNValues[0] = "changed"

	assert.Equal(t, "NA", DefaultNaNValues[0])
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
inputs:
  data_dir: /srv/sales
  delimiter: ";"
output:
  dir: /srv/out
  formats: [csv]
cleaning:
  iqr_multiplier: 3
logging:
  level: DEBUG
  output: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/sales", cfg.Inputs.DataDir)
	assert.Equal(t, ";", cfg.Inputs.Delimiter)
	assert.Equal(t, "/srv/out", cfg.Output.Dir)
	assert.Equal(t, []string{"csv"}, cfg.Output.Formats)
	assert.Equal(t, 3.0, cfg.Cleaning.IQRMultiplier)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)

	// untouched keys keep their defaults
	assert.Equal(t, 0.25, cfg.Cleaning.LowerQuantile)
	assert.Equal(t, DefaultWorkbookName, cfg.Output.WorkbookName)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
output:
  dir: from-file
cleaning:
  iqr_multiplier: 2
`)
	t.Setenv("SALES_OUTPUT_DIR", "from-env")
	t.Setenv("SALES_OUTPUT_FORMATS", "XLSX")
	t.Setenv("SALES_CLEANING_NAN_VALUES", "missing,-")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Output.Dir)
	assert.Equal(t, []string{"xlsx"}, cfg.Output.Formats)
	assert.Equal(t, []string{"missing", "-"}, cfg.Cleaning.NaNValues)
	assert.Equal(t, 2.0, cfg.Cleaning.IQRMultiplier)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "inputs: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero multiplier", func(c *Config) { c.Cleaning.IQRMultiplier = 0 }, true},
		{"quantile above one", func(c *Config) { c.Cleaning.UpperQuantile = 1.2 }, true},
		{"inverted quantiles", func(c *Config) {
			c.Cleaning.LowerQuantile = 0.8
			c.Cleaning.UpperQuantile = 0.2
		}, true},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"png"} }, true},
		{"no formats", func(c *Config) { c.Output.Formats = nil }, true},
		{"long delimiter", func(c *Config) { c.Inputs.Delimiter = ";;" }, true},
		{"tab delimiter", func(c *Config) { c.Inputs.Delimiter = "\t" }, false},
		{"no date layouts", func(c *Config) { c.Cleaning.DateLayouts = nil }, true},
		{"file exporter without file", func(c *Config) {
			c.Telemetry.EnableTracing = true
			c.Telemetry.TraceExporter = "file"
		}, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeDisablesTraceExporter(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.EnableTracing = false
	cfg.Telemetry.TraceExporter = "stdout"
	cfg.normalize()

	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
}

func TestWantsFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Formats = []string{FormatCSV}

	assert.True(t, cfg.WantsFormat(FormatCSV))
	assert.False(t, cfg.WantsFormat(FormatXLSX))
}
