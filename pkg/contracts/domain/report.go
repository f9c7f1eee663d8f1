package domain

import "time"

// DatePoint is one point of a time series
type DatePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// CategoryValue is a numeric total for a category label
type CategoryValue struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// CategoryCount is an occurrence count for a category label
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Report bundles the aggregates handed to a renderer.
// Every slice is already in presentation order.
type Report struct {
	SalesOverTime  []DatePoint     `json:"sales_over_time"`
	RevenueByGroup []CategoryValue `json:"revenue_by_group"`
	AccessByType   []CategoryCount `json:"access_by_type"`
}

// TotalAccesses returns the sum of all access counts
func (r Report) TotalAccesses() int {
	total := 0
	for _, c := range r.AccessByType {
		total += c.Count
	}
	return total
}

// Share returns the fraction of accesses that fall in the given category.
// It returns 0 when there are no accesses.
func (r Report) Share(category string) float64 {
	total := r.TotalAccesses()
	if total == 0 {
		return 0
	}
	for _, c := range r.AccessByType {
		if c.Category == category {
			return float64(c.Count) / float64(total)
		}
	}
	return 0
}
