package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Defaults used when a scanned product photo did not yield a value.
const (
	DefaultScanName     = "Auto Detected Item"
	DefaultScanCategory = "Uncategorized"
	DefaultScanMinStock = 5
)

// ScanResult is what an image classifier recognised in a product photo.
// Zero values mean the classifier did not provide the field.
type ScanResult struct {
	Name           string
	Category       string
	EstimatedPrice float64
	Description    string
}

// ProductFromScan derives a new product record from a scan result. The
// product gets a fresh ID and an AUTO SKU not used in the state, starts with
// zero quantity and a minimum stock of 5. It is not added to the state.
func (s *State) ProductFromScan(r ScanResult, now time.Time) Product {
	p := Product{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Category:    r.Category,
		SKU:         s.NextAutoSKU(),
		Quantity:    0,
		MinStock:    DefaultScanMinStock,
		Price:       r.EstimatedPrice,
		Description: r.Description,
		UpdatedAt:   now,
	}
	if p.Name == "" {
		p.Name = DefaultScanName
	}
	if p.Category == "" {
		p.Category = DefaultScanCategory
	}
	if p.Price < 0 {
		p.Price = 0
	}
	return p
}

// SummaryLine renders the product as one line of an insights prompt.
func (p Product) SummaryLine() string {
	return fmt.Sprintf("%s (%s): Qty %d, MinStock %d, Price $%s",
		p.Name, p.Category, p.Quantity, p.MinStock, FormatPrice(p.Price))
}
