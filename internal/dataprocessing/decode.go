package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"salesinsight/internal/config"
	"salesinsight/internal/errors"
	"salesinsight/pkg/contracts/domain"
)

// DecodeSales converts a sales table into typed rows. Missing dates decode
// to the zero time, missing numbers to NaN.
func DecodeSales(df dataframe.DataFrame) ([]domain.Sale, error) {
	if err := requireColumns(df, config.SalesDataset, SalesColumns); err != nil {
		return nil, err
	}

	dates := df.Col(config.ColSaleDate)
	ids := df.Col(config.ColProductDetailID)
	qty := df.Col(config.ColQuantity).Float()
	amount := df.Col(config.ColTotalAmount).Float()

	sales := make([]domain.Sale, df.Nrow())
	for i := range sales {
		ts, err := decodeDate(dates.Elem(i))
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("SaleDate at row %d", i+1), err)
		}
		sales[i] = domain.Sale{
			SaleDate:        ts,
			ProductDetailID: CanonicalID(ids.Elem(i)),
			Quantity:        qty[i],
			TotalAmount:     amount[i],
			RevenuePerUnit:  domain.Missing(),
		}
	}
	return sales, nil
}

// DecodeProductGroups converts a product group table into typed rows
func DecodeProductGroups(df dataframe.DataFrame) ([]domain.ProductGroup, error) {
	if err := requireColumns(df, config.ProductGroupDataset, ProductGroupColumns); err != nil {
		return nil, err
	}

	ids := df.Col(config.ColProductGroupID)
	names := df.Col(config.ColGroupName)

	groups := make([]domain.ProductGroup, df.Nrow())
	for i := range groups {
		groups[i] = domain.ProductGroup{
			ProductGroupID: CanonicalID(ids.Elem(i)),
			GroupName:      cellText(names.Elem(i)),
		}
	}
	return groups, nil
}

// DecodeWebsiteAccess converts a website access table into typed rows
func DecodeWebsiteAccess(df dataframe.DataFrame) ([]domain.WebsiteAccess, error) {
	if err := requireColumns(df, config.WebsiteAccessDataset, WebsiteAccessColumns); err != nil {
		return nil, err
	}

	types := df.Col(config.ColAccessType)
	access := make([]domain.WebsiteAccess, df.Nrow())
	for i := range access {
		access[i] = domain.WebsiteAccess{AccessType: cellText(types.Elem(i))}
	}
	return access, nil
}

// CanonicalID renders an identifier cell so that 1, "1" and "1.0" compare
// equal. Missing cells yield "".
func CanonicalID(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	switch e.Type() {
	case series.Float:
		return canonicalNumber(e.Float())
	case series.Int:
		v, _ := e.Int()
		return strconv.Itoa(v)
	default:
		return CanonicalIDString(e.String())
	}
}

// CanonicalIDString is CanonicalID for raw text
func CanonicalIDString(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return canonicalNumber(f)
	}
	return s
}

func canonicalNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func cellText(e series.Element) string {
	if e.IsNA() {
		return ""
	}
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'g', -1, 64)
	}
	return e.String()
}

func decodeDate(e series.Element) (time.Time, error) {
	if e.IsNA() {
		return time.Time{}, nil
	}
	s := strings.TrimSpace(e.String())
	if ts, err := time.Parse(config.DateOutputLayout, s); err == nil {
		return ts, nil
	}
	return ParseSaleDate(s, config.DefaultDateLayouts)
}
