package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/shared/testutil"
	"salesinsight/pkg/contracts/domain"
)

// TestFixturePipeline runs load, clean, transform and aggregate over the
// shared fixture datasets and checks the resulting series.
func TestFixturePipeline(t *testing.T) {
	ctx := context.Background()
	logger, logs := testutil.NewTestLogger(t)
	dir := testutil.WriteDatasets(t, testutil.DefaultDatasets())

	tables, err := NewLoader(logger, LoaderOptions{}).LoadAll(ctx, Sources{
		Sales:         dir + "/sales.csv",
		ProductGroups: dir + "/product_group.csv",
		WebsiteAccess: dir + "/website_access.csv",
	})
	require.NoError(t, err)

	cleaner := NewCleaner(logger, DefaultCleanerOptions())
	salesDF, _, err := cleaner.CleanSales(ctx, tables.Sales)
	require.NoError(t, err)
	groupsDF, _, err := cleaner.CleanProductGroups(ctx, tables.ProductGroups)
	require.NoError(t, err)
	accessDF, _, err := cleaner.CleanWebsiteAccess(ctx, tables.WebsiteAccess)
	require.NoError(t, err)

	sales, err := DecodeSales(salesDF)
	require.NoError(t, err)
	groups, err := DecodeProductGroups(groupsDF)
	require.NoError(t, err)
	access, err := DecodeWebsiteAccess(accessDF)
	require.NoError(t, err)

	tr := NewTransformer(logger)
	sales, zero := tr.DeriveRevenuePerUnit(ctx, sales)
	joined := tr.Join(ctx, sales, groups)
	report := NewAggregator(logger).Aggregate(ctx, sales, joined, access)

	assert.Zero(t, zero)
	require.Len(t, sales, 5)
	assert.InDeltaSlice(t, []float64{10, 12, 11 / (13.0 / 6.0), 13.0 / 3.0, 15},
		revenuePerUnit(sales), 1e-9)

	require.Len(t, joined, 4)
	for _, row := range joined {
		assert.NotEqual(t, "9", row.ProductDetailID)
	}

	require.Len(t, report.SalesOverTime, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), report.SalesOverTime[0].Date)
	assert.InDelta(t, 3, report.SalesOverTime[0].Value, 1e-9)
	assert.InDelta(t, 13.0/6.0+3, report.SalesOverTime[1].Value, 1e-9)
	assert.InDelta(t, 1, report.SalesOverTime[2].Value, 1e-9)

	assert.Equal(t, []domain.CategoryValue{
		{Category: "Books", Value: 25},
		{Category: "Electronics", Value: 20},
		{Category: "Garden", Value: 11},
	}, report.RevenueByGroup)

	assert.Equal(t, []domain.CategoryCount{
		{Category: "Guest", Count: 2},
		{Category: "Member", Count: 1},
		{Category: "Admin", Count: 1},
	}, report.AccessByType)
	assert.InDelta(t, 0.5, report.Share("Guest"), 1e-12)

	testutil.AssertNoErrors(t, logs)
}

func revenuePerUnit(sales []domain.Sale) []float64 {
	out := make([]float64, len(sales))
	for i, s := range sales {
		out[i] = s.RevenuePerUnit
	}
	return out
}
