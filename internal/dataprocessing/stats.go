package dataprocessing

import (
	"math"
	"sort"
)

// OutlierBounds describes an inter-quartile range filter
type OutlierBounds struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	// Valid is false when the distribution had no values
	Valid bool `json:"valid"`
}

// Contains reports whether v lies within the closed bounds
func (b OutlierBounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Quantile returns the p-quantile of sorted values using linear
// interpolation between closest ranks, h = (n-1)p. It returns NaN for an
// empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Mean returns the arithmetic mean of the non-missing values and how many
// there were. The mean is NaN when count is zero.
func Mean(values []float64) (mean float64, count int) {
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN(), 0
	}
	return sum / float64(count), count
}

// ComputeBounds returns [Q1 - k*IQR, Q3 + k*IQR] for the non-missing values.
// lowerQ and upperQ select the quartiles, normally 0.25 and 0.75.
func ComputeBounds(values []float64, lowerQ, upperQ, k float64) OutlierBounds {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return OutlierBounds{}
	}
	sort.Float64s(present)

	q1 := Quantile(present, lowerQ)
	q3 := Quantile(present, upperQ)
	iqr := q3 - q1
	return OutlierBounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - k*iqr,
		Upper: q3 + k*iqr,
		Valid: true,
	}
}
