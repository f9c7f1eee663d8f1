package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"salesinsight/internal/config"
	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/exporter"
	"salesinsight/internal/files"
	"salesinsight/internal/infrastructure"
	"salesinsight/internal/operations"
	"salesinsight/internal/validation"
	"salesinsight/pkg/contracts"
)

// cliOptions holds the command line flags. Empty values keep the configured
// setting.
type cliOptions struct {
	ConfigFile string
	DataDir    string
	Sales      string
	Groups     string
	Access     string
	OutputDir  string
	Format     string
	Step       string
	Version    bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(1)
	}
	if opts.Version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	baseDir, err := os.Getwd()
	if err != nil {
		logger.Error("Failed to get working directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(ctx, cfg, baseDir, opts.Step, logger); err != nil {
		logger.ErrorContext(ctx, "Sales report failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

// parseFlags parses args into cliOptions; usage and errors go to output
func parseFlags(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("salesreport", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.ConfigFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.DataDir, "data", "", "directory holding sales, product_group and website_access files")
	fs.StringVar(&opts.Sales, "sales", "", "sales file (overrides discovery)")
	fs.StringVar(&opts.Groups, "groups", "", "product group file (overrides discovery)")
	fs.StringVar(&opts.Access, "access", "", "website access file (overrides discovery)")
	fs.StringVar(&opts.OutputDir, "out", "", "output directory")
	fs.StringVar(&opts.Format, "format", "", "chart output: xlsx, csv or both")
	fs.StringVar(&opts.Step, "step", "", "run the pipeline up to this step only")
	fs.BoolVar(&opts.Version, "version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(output, err)
		return opts, err
	}
	return opts, nil
}

// loadConfig loads the configuration and applies the flag overrides
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyFlags(cfg *config.Config, opts cliOptions) error {
	if opts.DataDir != "" {
		cfg.Inputs.DataDir = opts.DataDir
	}
	if opts.Sales != "" {
		cfg.Inputs.SalesFile = opts.Sales
	}
	if opts.Groups != "" {
		cfg.Inputs.ProductGroupFile = opts.Groups
	}
	if opts.Access != "" {
		cfg.Inputs.WebsiteAccessFile = opts.Access
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}

	switch opts.Format {
	case "":
	case config.FormatXLSX, config.FormatCSV:
		cfg.Output.Formats = []string{opts.Format}
	case "both":
		cfg.Output.Formats = []string{config.FormatXLSX, config.FormatCSV}
	default:
		return fmt.Errorf("unknown format %q (want xlsx, csv or both)", opts.Format)
	}
	return nil
}

// run executes one report: resolve inputs, run the pipeline, write metrics
func run(ctx context.Context, cfg *config.Config, baseDir, step string, logger *slog.Logger) error {
	logger = infrastructure.LoggerOrDefault(logger)
	paths := config.ResolvePaths(baseDir, cfg)
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	paths.LogPathResolution(logger)

	validator := validation.NewFileValidator(logger)
	if paths.SalesFile == "" || paths.ProductGroupFile == "" || paths.WebsiteAccessFile == "" {
		if err := validator.ValidateInputDirectory(paths.DataDir); err != nil {
			return err
		}
	}
	sources, err := files.ResolveSources(paths, logger)
	if err != nil {
		return err
	}
	if err := validator.ValidateSources(sources); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry, paths.TraceFile), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	runtimeMetrics, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return err
	}
	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(paths, logger)
	var renderers []exporter.Renderer
	if cfg.WantsFormat(config.FormatXLSX) {
		renderers = append(renderers, exporter.NewWorkbookRenderer(paths.WorkbookFile, logger))
	}
	if cfg.WantsFormat(config.FormatCSV) {
		renderers = append(renderers, exporter.NewCSVRenderer(writer, cfg.Output.BOMPrefix, logger))
	}

	manager, err := operations.NewPipeline(operations.PipelineDeps{
		Sources:     sources,
		Loader:      dataprocessing.NewLoader(logger, dataprocessing.LoaderOptionsFromConfig(cfg)),
		Cleaner:     dataprocessing.NewCleaner(logger, dataprocessing.CleanerOptionsFromConfig(cfg.Cleaning)),
		Transformer: dataprocessing.NewTransformer(logger),
		Aggregator:  dataprocessing.NewAggregator(logger),
		Renderer:    exporter.NewMultiRenderer(renderers...),
		Render: operations.RenderOptions{
			Writer:       writer,
			ExportTables: cfg.Output.ExportTables,
			BOMPrefix:    cfg.Output.BOMPrefix,
		},
	}, operations.NewConfig(), tracer, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	state, runErr := manager.Run(ctx, operations.OperationRequest{Step: step})
	duration := time.Since(start)

	tracer.Metrics().RecordRun(ctx, duration, runErr)
	stats := runtimeMetrics.Collect(ctx, start)
	if err := providers.WriteMetricsTextfile(paths.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
	}

	if runErr != nil {
		return runErr
	}

	logger.InfoContext(ctx, "Sales report completed",
		slog.String("run_id", state.ID),
		slog.String("output_dir", paths.OutputDir),
		slog.Duration("duration", duration),
		slog.Int64("heap_alloc", stats.HeapAlloc))
	return nil
}
