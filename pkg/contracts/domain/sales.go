package domain

import (
	"math"
	"time"
)

// Sale represents a single sales transaction after decoding
type Sale struct {
	SaleDate        time.Time `json:"sale_date" csv:"SaleDate"`
	ProductDetailID string    `json:"product_detail_id" csv:"ProductDetailID"`
	Quantity        float64   `json:"quantity" csv:"Quantity"`
	TotalAmount     float64   `json:"total_amount" csv:"TotalAmount"`
	RevenuePerUnit  float64   `json:"revenue_per_unit" csv:"RevenuePerUnit"`
}

// HasDate reports whether the sale carried a SaleDate in the source
func (s Sale) HasDate() bool {
	return !s.SaleDate.IsZero()
}

// HasProduct reports whether the sale references a product
func (s Sale) HasProduct() bool {
	return s.ProductDetailID != ""
}

// Day returns the calendar date of the sale with the time of day dropped
func (s Sale) Day() time.Time {
	y, m, d := s.SaleDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProductGroup maps a product identifier to its group
type ProductGroup struct {
	ProductGroupID string `json:"product_group_id" csv:"ProductGroupID"`
	GroupName      string `json:"group_name" csv:"GroupName"`
}

// WebsiteAccess represents one website access log entry
type WebsiteAccess struct {
	AccessType string `json:"access_type" csv:"AccessType"`
}

// SaleWithGroup is a sale joined with its product group
type SaleWithGroup struct {
	Sale
	ProductGroupID string `json:"product_group_id" csv:"ProductGroupID"`
	GroupName      string `json:"group_name" csv:"GroupName"`
}

// Missing is the value used for numeric fields that had no value in the source
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether a numeric field has no value
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
