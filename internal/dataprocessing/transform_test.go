package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/shared/testutil"
	"salesinsight/pkg/contracts/domain"
)

func sale(id string, qty, amount float64) domain.Sale {
	return domain.Sale{
		SaleDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ProductDetailID: id,
		Quantity:        qty,
		TotalAmount:     amount,
		RevenuePerUnit:  domain.Missing(),
	}
}

func TestJoinSalesWithGroups(t *testing.T) {
	sales := []domain.Sale{
		sale("2", 1, 12),
		sale("9", 1, 15),
		sale("1", 2, 20),
		sale("", 1, 5),
		sale("2", 3, 13),
	}
	groups := []domain.ProductGroup{
		{ProductGroupID: "1", GroupName: "Electronics"},
		{ProductGroupID: "2", GroupName: "Books"},
		{ProductGroupID: "", GroupName: "Orphan"},
	}
	salesBefore := append([]domain.Sale(nil), sales...)
	groupsBefore := append([]domain.ProductGroup(nil), groups...)

	joined := JoinSalesWithGroups(sales, groups)

	require.Len(t, joined, 3)
	assert.Equal(t, []string{"Books", "Electronics", "Books"},
		[]string{joined[0].GroupName, joined[1].GroupName, joined[2].GroupName})
	assert.Equal(t, 13.0, joined[2].TotalAmount)
	for _, row := range joined {
		assert.Equal(t, row.ProductDetailID, row.ProductGroupID)
	}
	assert.LessOrEqual(t, len(joined), len(sales))
	assert.LessOrEqual(t, len(joined), len(sales)*len(groups))

	assert.Equal(t, len(salesBefore), len(sales))
	for i := range sales {
		assert.Equal(t, salesBefore[i].ProductDetailID, sales[i].ProductDetailID)
	}
	assert.Equal(t, groupsBefore, groups)
}

func TestJoinSalesWithGroups_MultipleMatches(t *testing.T) {
	sales := []domain.Sale{sale("1", 1, 10), sale("2", 1, 20)}
	groups := []domain.ProductGroup{
		{ProductGroupID: "1", GroupName: "A"},
		{ProductGroupID: "1", GroupName: "B"},
	}

	joined := JoinSalesWithGroups(sales, groups)

	require.Len(t, joined, 2)
	assert.Equal(t, "A", joined[0].GroupName)
	assert.Equal(t, "B", joined[1].GroupName)
	assert.Empty(t, JoinSalesWithGroups(nil, groups))
	assert.Empty(t, JoinSalesWithGroups(sales, nil))
}

func TestWithRevenuePerUnit(t *testing.T) {
	sales := []domain.Sale{
		sale("1", 2, 20),
		sale("2", 0, 5),
		sale("3", 0, 0),
	}

	out, zero := WithRevenuePerUnit(sales)

	assert.Equal(t, 2, zero)
	assert.Equal(t, 10.0, out[0].RevenuePerUnit)
	assert.True(t, math.IsInf(out[1].RevenuePerUnit, 1))
	assert.True(t, math.IsNaN(out[2].RevenuePerUnit))
	for _, s := range sales {
		assert.True(t, domain.IsMissing(s.RevenuePerUnit), "input must stay untouched")
	}
}

func TestTransformer_DuplicateSale(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	ctx := context.Background()
	df := frame(t, [][]string{
		{"SaleDate", "ProductDetailID", "Quantity", "TotalAmount"},
		{"2024-01-01T00:00:00", "1", "2", "20"},
		{"2024-01-01T00:00:00", "1", "2", "20"},
	})

	cleaned, _, err := NewCleaner(logger, DefaultCleanerOptions()).CleanSales(ctx, df)
	require.NoError(t, err)
	sales, err := DecodeSales(cleaned)
	require.NoError(t, err)

	tr := NewTransformer(logger)
	derived, zero := tr.DeriveRevenuePerUnit(ctx, sales)
	joined := tr.Join(ctx, derived, []domain.ProductGroup{{ProductGroupID: "1", GroupName: "Electronics"}})

	require.Len(t, derived, 1)
	assert.Zero(t, zero)
	assert.Equal(t, 10.0, derived[0].RevenuePerUnit)
	require.Len(t, joined, 1)
	assert.Equal(t, 10.0, joined[0].RevenuePerUnit)
	testutil.AssertLogAttr(t, logs, "unmatched_sales", 0)
}

func TestTransformer_LogsProblems(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	ctx := context.Background()
	tr := NewTransformer(logger)

	_, zero := tr.DeriveRevenuePerUnit(ctx, []domain.Sale{sale("1", 0, 5)})
	assert.Equal(t, 1, zero)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "sales with zero quantity have no finite revenue per unit")

	joined := tr.Join(ctx, []domain.Sale{sale("7", 1, 1)}, []domain.ProductGroup{{ProductGroupID: "1", GroupName: "A"}})
	assert.Empty(t, joined)
	testutil.AssertLogAttr(t, logs, "unmatched_sales", 1)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "no sale matched a product group")
}
