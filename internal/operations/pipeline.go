package operations

import (
	"fmt"
	"log/slog"

	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/exporter"
)

// PipelineDeps holds the collaborators of the five pipeline steps
type PipelineDeps struct {
	Sources     dataprocessing.Sources
	Loader      *dataprocessing.Loader
	Cleaner     *dataprocessing.Cleaner
	Transformer *dataprocessing.Transformer
	Aggregator  *dataprocessing.Aggregator
	Renderer    exporter.Renderer
	Render      RenderOptions
}

// NewPipeline builds a manager with load, clean, transform, aggregate and
// render registered. Nil processing components get their defaults.
func NewPipeline(deps PipelineDeps, cfg *Config, tracer *OperationTracer, logger *slog.Logger) (*Manager, error) {
	if tracer == nil {
		var err error
		if tracer, err = NewOperationTracer(nil); err != nil {
			return nil, err
		}
	}
	if deps.Loader == nil {
		deps.Loader = dataprocessing.NewLoader(logger, dataprocessing.LoaderOptions{})
	}
	if deps.Cleaner == nil {
		deps.Cleaner = dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerOptions())
	}
	if deps.Transformer == nil {
		deps.Transformer = dataprocessing.NewTransformer(logger)
	}
	if deps.Aggregator == nil {
		deps.Aggregator = dataprocessing.NewAggregator(logger)
	}

	manager := NewManager(NewRegistry(), cfg, tracer, logger)
	metrics := tracer.Metrics()

	steps := []Step{
		NewLoadStage(deps.Loader, deps.Sources, metrics, logger),
		NewCleanStage(deps.Cleaner, metrics),
		NewTransformStage(deps.Transformer, metrics),
		NewAggregateStage(deps.Aggregator),
		NewRenderStage(deps.Renderer, deps.Render, logger),
	}
	for _, step := range steps {
		if err := manager.RegisterStage(step); err != nil {
			return nil, fmt.Errorf("register step %s: %w", step.ID(), err)
		}
	}
	if err := manager.GetRegistry().ValidateDependencies(); err != nil {
		return nil, err
	}
	return manager, nil
}
