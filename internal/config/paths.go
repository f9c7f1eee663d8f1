package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the file system locations used by a run.
// Relative configuration paths are resolved against BaseDir.
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	LogsDir   string

	// Explicit input files; empty means discover in DataDir
	SalesFile         string
	ProductGroupFile  string
	WebsiteAccessFile string

	WorkbookFile string
	MetricsFile  string
	TraceFile    string
	LogFile      string
}

// GetPaths resolves the configured locations against the current working
// directory
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}
	return ResolvePaths(wd, cfg), nil
}

// ResolvePaths resolves the configured locations against baseDir
func ResolvePaths(baseDir string, cfg *Config) *Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	outputDir := resolve(cfg.Output.Dir)
	logFile := resolve(cfg.Logging.FilePath)

	inOutput := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(outputDir, name)
	}

	return &Paths{
		BaseDir:           baseDir,
		DataDir:           resolve(cfg.Inputs.DataDir),
		OutputDir:         outputDir,
		LogsDir:           filepath.Dir(logFile),
		SalesFile:         resolve(cfg.Inputs.SalesFile),
		ProductGroupFile:  resolve(cfg.Inputs.ProductGroupFile),
		WebsiteAccessFile: resolve(cfg.Inputs.WebsiteAccessFile),
		WorkbookFile:      inOutput(cfg.Output.WorkbookName),
		MetricsFile:       inOutput(cfg.Telemetry.MetricsFile),
		TraceFile:         inOutput(cfg.Telemetry.TraceFile),
		LogFile:           logFile,
	}
}

// EnsureDirectories creates the output and log directories if they don't exist.
// The data directory is an input and is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetOutputPath returns the path for a file in the output directory
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetDataPath returns the path for a file in the data directory
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved locations for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("inputs",
			slog.String("sales", p.SalesFile),
			slog.String("product_group", p.ProductGroupFile),
			slog.String("website_access", p.WebsiteAccessFile),
		),
		slog.Group("outputs",
			slog.String("workbook", p.WorkbookFile),
			slog.String("metrics", p.MetricsFile),
		))
}
