package exporter

import (
	"fmt"

	"salesinsight/internal/config"
	"salesinsight/pkg/contracts/domain"
)

// SalesHeaders are the columns of the cleaned sales export
var SalesHeaders = []string{
	config.ColSaleDate,
	config.ColProductDetailID,
	config.ColQuantity,
	config.ColTotalAmount,
	config.ColRevenuePerUnit,
}

// SalesWithGroupHeaders are the columns of the joined sales export
var SalesWithGroupHeaders = append(append([]string{}, SalesHeaders...),
	config.ColProductGroupID,
	config.ColGroupName,
)

func saleRecord(s domain.Sale) []string {
	return []string{
		formatTimestamp(s.SaleDate),
		s.ProductDetailID,
		formatFloat(s.Quantity),
		formatFloat(s.TotalAmount),
		formatFloat(s.RevenuePerUnit),
	}
}

// ExportSales streams the cleaned sales rows with RevenuePerUnit to filePath
func (w *CSVWriter) ExportSales(filePath string, sales []domain.Sale, bom bool) error {
	stream, err := w.CreateStreamWriter(filePath, SalesHeaders, bom)
	if err != nil {
		return fmt.Errorf("export sales: %w", err)
	}
	for i, s := range sales {
		if err := stream.WriteRecord(saleRecord(s)); err != nil {
			stream.Close()
			return fmt.Errorf("export sales row %d: %w", i+1, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("export sales: %w", err)
	}
	w.logger.Info("Exported sales", "file_path", filePath, "rows", stream.Rows())
	return nil
}

// ExportSalesWithGroup streams the joined sales rows to filePath
func (w *CSVWriter) ExportSalesWithGroup(filePath string, joined []domain.SaleWithGroup, bom bool) error {
	stream, err := w.CreateStreamWriter(filePath, SalesWithGroupHeaders, bom)
	if err != nil {
		return fmt.Errorf("export joined sales: %w", err)
	}
	for i, row := range joined {
		record := append(saleRecord(row.Sale), row.ProductGroupID, row.GroupName)
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("export joined sales row %d: %w", i+1, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("export joined sales: %w", err)
	}
	w.logger.Info("Exported joined sales", "file_path", filePath, "rows", stream.Rows())
	return nil
}
