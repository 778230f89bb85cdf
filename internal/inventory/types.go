package inventory

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateID       = errors.New("product with this id already exists")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrStockOverflow     = errors.New("stock quantity too large")
)

// Product is a single inventory item.
type Product struct {
	ID          string
	Name        string
	Category    string
	SKU         string
	Quantity    int
	MinStock    int
	Price       float64
	Description string
	ImageURL    string
	UpdatedAt   time.Time
}

// IsLowStock reports whether the product is at or below its minimum stock level.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// Value is the stock value of the product (price times quantity).
func (p Product) Value() float64 {
	return p.Price * float64(p.Quantity)
}

func (p Product) validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case p.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidProduct)
	case p.MinStock < 0:
		return fmt.Errorf("%w: min stock cannot be negative", ErrInvalidProduct)
	case math.IsNaN(p.Price) || math.IsInf(p.Price, 0):
		return fmt.Errorf("%w: price must be a finite number", ErrInvalidProduct)
	case p.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	return nil
}

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Transaction records a stock movement for a product.
type Transaction struct {
	ID          string
	ProductID   string
	ProductName string
	Type        TransactionType
	Quantity    int
	Date        time.Time
	User        string
}

// DashboardStats holds the headline numbers shown on the dashboard.
type DashboardStats struct {
	TotalItems         int
	LowStockItems      int
	TotalValue         float64
	RecentTransactions []Transaction
}

// ChartBar is one bar of the stock level chart.
type ChartBar struct {
	Name  string
	Stock int
	Min   int
	Low   bool
}
