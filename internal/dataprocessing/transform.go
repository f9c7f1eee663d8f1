package dataprocessing

import (
	"context"
	"log/slog"

	"salesinsight/pkg/contracts/domain"
)

// Transformer joins sales with product groups and derives per-row columns
type Transformer struct {
	logger *slog.Logger
}

// NewTransformer creates a transformer
func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger.With("component", "transformer")}
}

// JoinSalesWithGroups is an inner join on ProductDetailID = ProductGroupID.
// Output follows sale order, then group order for a sale matching several
// groups. Sales without a product never match.
func JoinSalesWithGroups(sales []domain.Sale, groups []domain.ProductGroup) []domain.SaleWithGroup {
	byID := make(map[string][]int, len(groups))
	for i, g := range groups {
		if g.ProductGroupID == "" {
			continue
		}
		byID[g.ProductGroupID] = append(byID[g.ProductGroupID], i)
	}

	joined := make([]domain.SaleWithGroup, 0, len(sales))
	for _, s := range sales {
		if !s.HasProduct() {
			continue
		}
		for _, gi := range byID[s.ProductDetailID] {
			g := groups[gi]
			joined = append(joined, domain.SaleWithGroup{
				Sale:           s,
				ProductGroupID: g.ProductGroupID,
				GroupName:      g.GroupName,
			})
		}
	}
	return joined
}

// UnmatchedSales counts the sales that no product group matches
func UnmatchedSales(sales []domain.Sale, groups []domain.ProductGroup) int {
	ids := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		ids[g.ProductGroupID] = struct{}{}
	}
	unmatched := 0
	for _, s := range sales {
		if _, ok := ids[s.ProductDetailID]; !ok || !s.HasProduct() {
			unmatched++
		}
	}
	return unmatched
}

// WithRevenuePerUnit returns a copy of sales with RevenuePerUnit set to
// TotalAmount / Quantity, along with the number of zero-quantity rows.
// Division follows IEEE rules: x/0 is an infinity and 0/0 is NaN.
func WithRevenuePerUnit(sales []domain.Sale) ([]domain.Sale, int) {
	out := make([]domain.Sale, len(sales))
	zero := 0
	for i, s := range sales {
		if s.Quantity == 0 {
			zero++
		}
		s.RevenuePerUnit = s.TotalAmount / s.Quantity
		out[i] = s
	}
	return out, zero
}

// Join runs JoinSalesWithGroups and logs the match statistics
func (t *Transformer) Join(ctx context.Context, sales []domain.Sale, groups []domain.ProductGroup) []domain.SaleWithGroup {
	joined := JoinSalesWithGroups(sales, groups)
	unmatched := UnmatchedSales(sales, groups)

	t.logger.InfoContext(ctx, "sales joined with product groups",
		slog.Int("sales", len(sales)),
		slog.Int("groups", len(groups)),
		slog.Int("joined", len(joined)),
		slog.Int("unmatched_sales", unmatched))
	if len(joined) == 0 && len(sales) > 0 {
		t.logger.WarnContext(ctx, "no sale matched a product group")
	}
	return joined
}

// DeriveRevenuePerUnit runs WithRevenuePerUnit and warns about zero quantities
func (t *Transformer) DeriveRevenuePerUnit(ctx context.Context, sales []domain.Sale) ([]domain.Sale, int) {
	out, zero := WithRevenuePerUnit(sales)
	if zero > 0 {
		t.logger.WarnContext(ctx, "sales with zero quantity have no finite revenue per unit",
			slog.Int("rows", zero))
	}
	return out, zero
}
