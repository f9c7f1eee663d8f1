package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesinsight/internal/shared/testutil"
	"salesinsight/pkg/contracts/domain"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func grouped(name string, amount float64) domain.SaleWithGroup {
	return domain.SaleWithGroup{
		Sale:      domain.Sale{TotalAmount: amount, Quantity: 1},
		GroupName: name,
	}
}

func TestSalesOverTime(t *testing.T) {
	sales := []domain.Sale{
		{SaleDate: day(3, 10), Quantity: 1},
		{SaleDate: day(1, 9), Quantity: 2},
		{Quantity: 100},
		{SaleDate: day(1, 17), Quantity: 1},
		{SaleDate: day(2, 0), Quantity: domain.Missing()},
	}

	points := SalesOverTime(sales)

	assert.Equal(t, []domain.DatePoint{
		{Date: day(1, 0), Value: 3},
		{Date: day(2, 0), Value: 0},
		{Date: day(3, 0), Value: 1},
	}, points)
	assert.Empty(t, SalesOverTime(nil))
}

func TestRevenueByGroup(t *testing.T) {
	joined := []domain.SaleWithGroup{
		grouped("Electronics", 20),
		grouped("Books", 12),
		grouped("Garden", 11),
		grouped("Books", 13),
		grouped("Toys", 20),
	}

	got := RevenueByGroup(joined)

	assert.Equal(t, []domain.CategoryValue{
		{Category: "Books", Value: 25},
		{Category: "Electronics", Value: 20},
		{Category: "Toys", Value: 20},
		{Category: "Garden", Value: 11},
	}, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Value, got[i].Value)
	}
}

func TestRevenueTotalsExact(t *testing.T) {
	totals := RevenueTotals([]domain.SaleWithGroup{
		grouped("A", 0.1),
		grouped("A", 0.2),
		grouped("B", domain.Missing()),
	})

	require.Len(t, totals, 2)
	assert.Equal(t, "0.3", totals[0].Total.String())
	assert.Equal(t, "B", totals[1].GroupName)
	assert.True(t, totals[1].Total.IsZero())
}

func TestAccessByType(t *testing.T) {
	got := AccessByType([]domain.WebsiteAccess{{AccessType: "A"}, {AccessType: "A"}, {AccessType: "B"}})
	assert.Equal(t, []domain.CategoryCount{{Category: "A", Count: 2}, {Category: "B", Count: 1}}, got)

	got = AccessByType([]domain.WebsiteAccess{
		{AccessType: "Member"}, {AccessType: "Guest"}, {AccessType: "Admin"}, {AccessType: "Guest"},
	})
	assert.Equal(t, []string{"Guest", "Member", "Admin"},
		[]string{got[0].Category, got[1].Category, got[2].Category})
}

func TestAggregator_Aggregate(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	a := NewAggregator(logger)

	report := a.Aggregate(context.Background(),
		[]domain.Sale{{SaleDate: day(1, 0), Quantity: 2}},
		nil,
		[]domain.WebsiteAccess{{AccessType: "Guest"}})

	assert.Len(t, report.SalesOverTime, 1)
	assert.Empty(t, report.RevenueByGroup)
	assert.Equal(t, 1, report.TotalAccesses())
	testutil.AssertLogAttr(t, logs, "access_types", 1)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "revenue by group is empty")
}
