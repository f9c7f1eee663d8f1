package exporter

import (
	"context"
	"errors"
	"io"

	"salesinsight/pkg/contracts/domain"
)

// Renderer draws the three report charts. Each series arrives already in
// presentation order and is not modified.
type Renderer interface {
	RenderSalesOverTime(ctx context.Context, points []domain.DatePoint) error
	RenderRevenueByGroup(ctx context.Context, values []domain.CategoryValue) error
	RenderAccessByType(ctx context.Context, counts []domain.CategoryCount) error
}

// RenderReport hands every series of report to r in chart order
func RenderReport(ctx context.Context, r Renderer, report domain.Report) error {
	if err := r.RenderSalesOverTime(ctx, report.SalesOverTime); err != nil {
		return err
	}
	if err := r.RenderRevenueByGroup(ctx, report.RevenueByGroup); err != nil {
		return err
	}
	return r.RenderAccessByType(ctx, report.AccessByType)
}

// MultiRenderer forwards each call to several renderers in order and stops
// at the first error
type MultiRenderer struct {
	renderers []Renderer
}

// NewMultiRenderer combines renderers; nil entries are skipped
func NewMultiRenderer(renderers ...Renderer) *MultiRenderer {
	m := &MultiRenderer{}
	for _, r := range renderers {
		if r != nil {
			m.renderers = append(m.renderers, r)
		}
	}
	return m
}

// Len returns the number of combined renderers
func (m *MultiRenderer) Len() int {
	return len(m.renderers)
}

func (m *MultiRenderer) RenderSalesOverTime(ctx context.Context, points []domain.DatePoint) error {
	for _, r := range m.renderers {
		if err := r.RenderSalesOverTime(ctx, points); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRenderer) RenderRevenueByGroup(ctx context.Context, values []domain.CategoryValue) error {
	for _, r := range m.renderers {
		if err := r.RenderRevenueByGroup(ctx, values); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRenderer) RenderAccessByType(ctx context.Context, counts []domain.CategoryCount) error {
	for _, r := range m.renderers {
		if err := r.RenderAccessByType(ctx, counts); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every combined renderer that holds resources
func (m *MultiRenderer) Close() error {
	var errs []error
	for _, r := range m.renderers {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
