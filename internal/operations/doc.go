// Package operations runs the sales report pipeline as a sequence of steps.
//
// A Step is one unit of work with an ID, a display name and the IDs of the
// steps it depends on. The Registry stores steps in registration order and
// resolves a dependency order for them. The Manager executes that order on a
// single goroutine:
//
//   - each step gets its own timeout context and OpenTelemetry span
//   - Validate runs before Execute; a failed validation skips the step
//   - the first failure stops the run and marks the remaining steps skipped
//   - cancellation is checked between steps
//
// Steps hand their results to each other through OperationState.Data. A step
// stores new values and never modifies the values of earlier steps.
//
// The pipeline steps are:
//
//	load       read sales, product groups and website access
//	clean      impute, drop missing rows, drop duplicates, filter outliers
//	transform  decode rows, derive RevenuePerUnit, join sales with groups
//	aggregate  quantity per date, revenue per group, accesses per type
//	render     chart workbook and CSV exports
//
// NewPipeline wires all five into a Manager.
package operations
