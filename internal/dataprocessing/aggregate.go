package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// Aggregator reduces cleaned rows to the chart series
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With("component", "aggregator")}
}

// SalesOverTime sums Quantity per calendar date in chronological order.
// Sales without a date are skipped; missing quantities add nothing.
func SalesOverTime(sales []domain.Sale) []domain.DatePoint {
	totals := make(map[time.Time]float64)
	for _, s := range sales {
		if !s.HasDate() {
			continue
		}
		day := s.Day()
		if _, ok := totals[day]; !ok {
			totals[day] = 0
		}
		if !domain.IsMissing(s.Quantity) {
			totals[day] += s.Quantity
		}
	}

	points := make([]domain.DatePoint, 0, len(totals))
	for day, total := range totals {
		points = append(points, domain.DatePoint{Date: day, Value: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// RevenueTotal is the exact revenue of one product group
type RevenueTotal struct {
	GroupName string
	Total     decimal.Decimal
}

// RevenueTotals sums TotalAmount per GroupName with decimal arithmetic,
// ordered by descending total. Equal totals keep first-seen order.
func RevenueTotals(joined []domain.SaleWithGroup) []RevenueTotal {
	index := make(map[string]int)
	var totals []RevenueTotal
	for _, row := range joined {
		i, ok := index[row.GroupName]
		if !ok {
			i = len(totals)
			index[row.GroupName] = i
			totals = append(totals, RevenueTotal{GroupName: row.GroupName, Total: decimal.Zero})
		}
		if domain.IsMissing(row.TotalAmount) || math.IsInf(row.TotalAmount, 0) {
			continue
		}
		totals[i].Total = totals[i].Total.Add(decimal.NewFromFloat(row.TotalAmount))
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals
}

// RevenueByGroup is RevenueTotals as chart values
func RevenueByGroup(joined []domain.SaleWithGroup) []domain.CategoryValue {
	totals := RevenueTotals(joined)
	values := make([]domain.CategoryValue, len(totals))
	for i, t := range totals {
		values[i] = domain.CategoryValue{Category: t.GroupName, Value: t.Total.InexactFloat64()}
	}
	return values
}

// AccessByType counts accesses per AccessType, most frequent first.
// Equal counts keep first-seen order.
func AccessByType(access []domain.WebsiteAccess) []domain.CategoryCount {
	index := make(map[string]int)
	var counts []domain.CategoryCount
	for _, a := range access {
		i, ok := index[a.AccessType]
		if !ok {
			i = len(counts)
			index[a.AccessType] = i
			counts = append(counts, domain.CategoryCount{Category: a.AccessType})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Aggregate builds the three chart series
func (a *Aggregator) Aggregate(ctx context.Context, sales []domain.Sale, joined []domain.SaleWithGroup, access []domain.WebsiteAccess) domain.Report {
	report := domain.Report{
		SalesOverTime:  SalesOverTime(sales),
		RevenueByGroup: RevenueByGroup(joined),
		AccessByType:   AccessByType(access),
	}

	a.logger.InfoContext(ctx, "aggregates computed",
		slog.Int("dates", len(report.SalesOverTime)),
		slog.Int("groups", len(report.RevenueByGroup)),
		slog.Int("access_types", len(report.AccessByType)),
		slog.Int("total_accesses", report.TotalAccesses()))

	if len(report.RevenueByGroup) == 0 {
		a.logger.WarnContext(ctx, "revenue by group is empty")
	}
	return report
}
