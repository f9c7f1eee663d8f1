// Package exporter turns the aggregated sales report into files.
//
// Renderer is the chart sink. Two implementations exist:
//
// WorkbookRenderer: draws each chart with excelize on its own sheet of an
// Excel workbook, next to the table it plots.
//
// CSVRenderer: writes each chart series as a CSV file.
//
// MultiRenderer fans a call out to several renderers in order.
//
// CSVWriter is the shared CSV layer. It supports headers, appending,
// streaming and a UTF-8 BOM for Excel, and exports the cleaned and joined
// sales tables.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	workbook := exporter.NewWorkbookRenderer(paths.WorkbookFile, logger)
//	r := exporter.NewMultiRenderer(workbook, exporter.NewCSVRenderer(writer, true, logger))
//	defer r.Close()
//
//	err := exporter.RenderReport(ctx, r, report)
package exporter
