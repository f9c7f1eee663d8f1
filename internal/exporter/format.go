package exporter

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"salesinsight/internal/config"
)

// formatFloat formats a float64 with the fewest digits that round-trip.
// Missing values are written as empty cells.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatFloat(f)
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// formatPercent formats a fraction as a percentage with one decimal, like 33.3%
func formatPercent(fraction float64) string {
	return decimal.NewFromFloat(fraction).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatDate formats a calendar date; the zero time is an empty cell
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(config.DayLayout)
}

// formatTimestamp formats a sale timestamp; the zero time is an empty cell
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(config.DateOutputLayout)
}
