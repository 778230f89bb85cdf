package inventory

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	productsSheet = "Products"
	summarySheet  = "Summary"
)

var productHeader = []any{"ID", "Name", "Category", "SKU", "Quantity", "Min Stock", "Price", "Value", "Low Stock", "Description", "Updated At"}

// ExportWorkbook writes the inventory as an xlsx report with a product sheet
// and a summary sheet.
func (s *State) ExportWorkbook(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := f.SetSheetRow(productsSheet, "A1", &productHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range s.products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.ID, p.Name, p.Category, p.SKU, p.Quantity, p.MinStock,
			p.Price, p.Value(), p.IsLowStock(), p.Description,
			p.UpdatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(productsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write product row: %w", err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	stats := s.Stats()
	summary := [][]any{
		{"Total Products", stats.TotalItems},
		{"Low Stock Alert", stats.LowStockItems},
		{"Total Inventory Value", stats.TotalValue},
		{"Transactions", len(stats.RecentTransactions)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
