// Package store provides read-only access to the product catalog.
package store

import "github.com/shopspring/decimal"

// ProductStore is an interface for catalog read operations.
// Products are immutable once loaded; implementations hand out copies.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(id int) (*Product, error)

	// FindAll returns all products in catalog order.
	// Returns an empty slice if the catalog is empty.
	FindAll() []Product
}

// Product represents a purchasable catalog entry.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}
