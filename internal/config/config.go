package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs" envconfig:"INPUTS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputsConfig locates and describes the three source datasets.
// Explicit file paths win over discovery in DataDir.
type InputsConfig struct {
	DataDir           string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	SalesFile         string `yaml:"sales_file" envconfig:"SALES_FILE"`
	ProductGroupFile  string `yaml:"product_group_file" envconfig:"PRODUCT_GROUP_FILE"`
	WebsiteAccessFile string `yaml:"website_access_file" envconfig:"WEBSITE_ACCESS_FILE"`
	Delimiter         string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	Sheet             string `yaml:"sheet" envconfig:"SHEET"`
}

// OutputConfig contains where and how rendered results are written
type OutputConfig struct {
	Dir          string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Formats      []string `yaml:"formats" envconfig:"FORMATS" validate:"required,min=1,dive,oneof=xlsx csv"`
	WorkbookName string   `yaml:"workbook_name" envconfig:"WORKBOOK_NAME" validate:"required"`
	ExportTables bool     `yaml:"export_tables" envconfig:"EXPORT_TABLES"`
	BOMPrefix    bool     `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// CleaningConfig contains the data cleaning policy knobs
type CleaningConfig struct {
	IQRMultiplier float64  `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" validate:"gt=0"`
	LowerQuantile float64  `yaml:"lower_quantile" envconfig:"LOWER_QUANTILE" validate:"gte=0,lte=1"`
	UpperQuantile float64  `yaml:"upper_quantile" envconfig:"UPPER_QUANTILE" validate:"gte=0,lte=1,gtfield=LowerQuantile"`
	NaNValues     []string `yaml:"nan_values" envconfig:"NAN_VALUES"`
	DateLayouts   []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS" validate:"required,min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout file"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=TraceExporter file"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// SALES_* environment variables, in increasing order of precedence.
// An empty filePath falls back to the well-known config locations.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath == "" {
		filePath = getConfigFilePath()
	}
	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize applies the fixed logging policy and lowercases enum-like fields
func (c *Config) normalize() {
	// Always JSON
	c.Logging.Format = "json"
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	for i, f := range c.Output.Formats {
		c.Output.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)
	if !c.Telemetry.EnableTracing {
		c.Telemetry.TraceExporter = "none"
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// WantsFormat reports whether the given output format is enabled
func (c *Config) WantsFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"salesreport.yaml",
		"configs/salesreport.yaml",
		"config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			DataDir:   DefaultDataDir,
			Delimiter: ",",
		},
		Output: OutputConfig{
			Dir:          DefaultOutputDir,
			Formats:      []string{FormatXLSX, FormatCSV},
			WorkbookName: DefaultWorkbookName,
			ExportTables: true,
			BOMPrefix:    false,
		},
		Cleaning: CleaningConfig{
			IQRMultiplier: DefaultIQRMultiplier,
			LowerQuantile: DefaultLowerQuantile,
			UpperQuantile: DefaultUpperQuantile,
			NaNValues:     append([]string(nil), DefaultNaNValues...),
			DateLayouts:   append([]string(nil), DefaultDateLayouts...),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "development",
			EnableTracing: false,
			TraceExporter: "none",
			EnableMetrics: true,
			MetricsFile:   DefaultMetricsFile,
		},
	}
}
