// Package dataprocessing implements the sales cleaning pipeline: loading the
// three source tables, cleaning them, joining sales with product groups and
// reducing the result to chart series.
//
// # Stages
//
//  1. Loader reads CSV/TSV or Excel sources into gota dataframes and
//     canonicalizes SaleDate.
//  2. Cleaner imputes Quantity and TotalAmount with column means, drops
//     incomplete rows from the lookup tables, removes duplicate rows and
//     filters TotalAmount outliers with a single 1.5*IQR pass.
//  3. DecodeSales and friends turn tables into domain rows; the Transformer
//     joins them and derives RevenuePerUnit.
//  4. The Aggregator builds sales over time, revenue by group and access by
//     type, each already in presentation order.
//
// Every stage returns new values and leaves its inputs untouched.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderOptionsFromConfig(cfg))
//	tables, err := loader.LoadAll(ctx, sources)
//	if err != nil {
//	    return err
//	}
//	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerOptions())
//	sales, report, err := cleaner.CleanSales(ctx, tables.Sales)
package dataprocessing
