package inventory

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	autoSKUPrefix = "AUTO-"
	autoSKURange  = 1000
)

// State is the in-memory inventory of one user session.
//
// It is owned by a single goroutine (the session worker) and is not safe for
// concurrent use. Readers get copies, so a returned slice can be kept after
// the state changes.
type State struct {
	products     []Product
	transactions []Transaction
}

// NewState returns an empty inventory.
func NewState() *State {
	return &State{}
}

// NewSeededState returns an inventory pre-filled with demo products and
// transactions.
func NewSeededState(now time.Time) *State {
	s := &State{
		products: []Product{
			{ID: "1", Name: "Eco Water Bottle", Category: "Accessories", SKU: "WB-001", Quantity: 45, MinStock: 20, Price: 25.99, Description: "Stainless steel reusable bottle.", UpdatedAt: now},
			{ID: "2", Name: "Organic Cotton Tee", Category: "Apparel", SKU: "TS-102", Quantity: 12, MinStock: 15, Price: 19.50, Description: "Soft sustainable cotton.", UpdatedAt: now},
			{ID: "3", Name: "Bamboo Toothbrush", Category: "Health", SKU: "BT-505", Quantity: 120, MinStock: 50, Price: 4.99, Description: "Biodegradable bamboo handle.", UpdatedAt: now},
			{ID: "4", Name: "Solar Charger", Category: "Electronics", SKU: "SC-999", Quantity: 8, MinStock: 10, Price: 89.00, Description: "Portable solar power bank.", UpdatedAt: now},
		},
		transactions: []Transaction{
			{ID: "t1", ProductID: "1", ProductName: "Eco Water Bottle", Type: TransactionIn, Quantity: 20, Date: now, User: "Admin"},
			{ID: "t2", ProductID: "2", ProductName: "Organic Cotton Tee", Type: TransactionOut, Quantity: 5, Date: now, User: "Manager"},
		},
	}
	return s
}

// Products returns a copy of all products in insertion order.
func (s *State) Products() []Product {
	return slices.Clone(s.products)
}

// Transactions returns a copy of all transactions in the order they were recorded.
func (s *State) Transactions() []Transaction {
	return slices.Clone(s.transactions)
}

// Len returns the number of products.
func (s *State) Len() int {
	return len(s.products)
}

// Add appends a product. A missing UpdatedAt is left as is.
func (s *State) Add(p Product) error {
	if err := p.validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	s.products = append(s.products, p)
	return nil
}

// Update replaces the product that has the same ID.
func (s *State) Update(p Product, now time.Time) error {
	if err := p.validate(); err != nil {
		return err
	}
	i := s.indexOf(p.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, p.ID)
	}
	p.UpdatedAt = now
	s.products[i] = p
	return nil
}

// Delete removes the product with the given ID.
func (s *State) Delete(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// Find looks up a product by exact ID or by SKU (case-insensitive).
func (s *State) Find(idOrSKU string) (Product, bool) {
	if i := s.indexOf(idOrSKU); i >= 0 {
		return s.products[i], true
	}
	for _, p := range s.products {
		if p.SKU != "" && strings.EqualFold(p.SKU, idOrSKU) {
			return p, true
		}
	}
	return Product{}, false
}

// Search returns products whose name, SKU or category contains term,
// ignoring case. An empty term matches everything.
func (s *State) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.Products()
	}
	var out []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.SKU), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// RecordMovement adjusts the stock of a product and records the transaction.
func (s *State) RecordMovement(productID string, typ TransactionType, qty int, user string, now time.Time) (Transaction, error) {
	if qty <= 0 {
		return Transaction{}, ErrInvalidQuantity
	}
	i := s.indexOf(productID)
	if i < 0 {
		return Transaction{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	p := &s.products[i]
	switch typ {
	case TransactionIn:
		if qty > math.MaxInt-p.Quantity {
			return Transaction{}, fmt.Errorf("%w: %d more on top of %d", ErrStockOverflow, qty, p.Quantity)
		}
		p.Quantity += qty
	case TransactionOut:
		if qty > p.Quantity {
			return Transaction{}, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, qty, p.Quantity)
		}
		p.Quantity -= qty
	default:
		return Transaction{}, fmt.Errorf("unknown transaction type %q", typ)
	}
	p.UpdatedAt = now

	tx := Transaction{
		ID:          uuid.NewString(),
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        typ,
		Quantity:    qty,
		Date:        now,
		User:        user,
	}
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

// NextAutoSKU returns an AUTO-<n> SKU that no product in the state uses yet.
// n is picked at random below 1000; once that range is used up the range
// grows.
func (s *State) NextAutoSKU() string {
	used := make(map[string]bool, len(s.products))
	for _, p := range s.products {
		used[strings.ToUpper(p.SKU)] = true
	}

	for limit := autoSKURange; ; limit *= 10 {
		start := rand.IntN(limit)
		for i := 0; i < limit; i++ {
			sku := fmt.Sprintf("%s%d", autoSKUPrefix, (start+i)%limit)
			if !used[sku] {
				return sku
			}
		}
	}
}

func (s *State) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
