// Package files locates the source datasets of a report run.
//
// Discovery scans a data directory for sales, product_group and
// website_access files in any supported format (.csv, .tsv, .txt, .xlsx,
// .xlsm). ResolveSources combines discovery with the explicit file paths from
// the configuration, which always take precedence.
//
// Example usage:
//
//	d := files.NewDiscovery("data", logger)
//	sales, err := d.Locate("sales")
package files
