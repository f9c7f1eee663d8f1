// Package config provides centralized configuration management for the
// sales report pipeline. It loads configuration from multiple sources,
// validates it and resolves the file system paths a run needs.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<KEY>:
//
//	SALES_INPUTS_DATA_DIR=./data
//	SALES_OUTPUT_DIR=./output
//	SALES_OUTPUT_FORMATS=xlsx,csv
//	SALES_CLEANING_IQR_MULTIPLIER=1.5
//	SALES_LOGGING_LEVEL=debug
//
// # Validation
//
// The loaded configuration is validated with go-playground/validator struct
// tags. Quantiles must lie in [0,1] with the upper one above the lower one,
// the IQR multiplier must be positive and output formats are limited to
// xlsx and csv.
//
// # Path Management
//
// Paths resolves relative locations against a base directory:
//
//	paths, err := config.GetPaths(cfg)
//	workbook := paths.WorkbookFile
package config
