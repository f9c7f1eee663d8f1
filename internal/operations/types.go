package operations

import (
	"time"
)

// Pipeline step identifiers
const (
	StepIDLoad      = "load"
	StepIDClean     = "clean"
	StepIDTransform = "transform"
	StepIDAggregate = "aggregate"
	StepIDRender    = "render"
)

// Pipeline step names
const (
	StepNameLoad      = "Load Datasets"
	StepNameClean     = "Clean Datasets"
	StepNameTransform = "Join and Derive"
	StepNameAggregate = "Aggregate Series"
	StepNameRender    = "Render Charts"
)

// Context keys for values recorded in the operation state
const (
	ContextKeyRowsLoaded      = "rows_loaded"
	ContextKeyUnmatchedSales  = "unmatched_sales"
	ContextKeyZeroQuantity    = "zero_quantity_rows"
	ContextKeyOutputsWritten  = "outputs_written"
	ContextKeyCleaningReports = "cleaning_reports"
)

// DefaultStepTimeout bounds a single step
const DefaultStepTimeout = 10 * time.Minute

// OperationRequest represents a request to run the pipeline
type OperationRequest struct {
	ID string `json:"id"`
	// Step runs a single registered step when set
	Step string `json:"step,omitempty"`
}

// OperationResponse represents the outcome of a pipeline run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}
