// Package shared holds code used across the salesinsight packages that
// belongs to no single pipeline stage.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler for asserting on structured log output
//	- Fixture writers for CSV and Excel sources
//	- Canonical sales, product group and website access datasets
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    dir := testutil.WriteDatasets(t, testutil.DefaultDatasets())
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
//	}
package shared
