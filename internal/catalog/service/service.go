// Package service provides read queries over the product catalog.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/abgdnv/storefront/internal/catalog/store"
)

// AllCategories selects every category when used as Filter.Category.
const AllCategories = "All"

// CatalogService defines the read operations UI consumers run against the catalog.
type CatalogService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*store.Product, error)

	// FindAll returns the products matching filter in catalog order.
	// Returns an empty slice if nothing matches.
	FindAll(ctx context.Context, filter Filter) []store.Product

	// Categories returns the distinct categories in order of first appearance.
	Categories(ctx context.Context) []string

	// Featured returns the first n products of the catalog.
	Featured(ctx context.Context, n int) []store.Product
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	// Category must equal the product category exactly; "" and "All" disable the filter.
	Category string
	// Query is matched case-insensitively against name and description.
	Query string
}

// Service implements CatalogService.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of CatalogService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// FindByID retrieves a product by its ID.
func (s *Service) FindByID(_ context.Context, id int) (*store.Product, error) {
	product, err := s.repository.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return product, nil
}

// FindAll returns the products matching both the category and the text query.
func (s *Service) FindAll(_ context.Context, filter Filter) []store.Product {
	products := s.repository.FindAll()
	category := strings.TrimSpace(filter.Category)
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	filtered := make([]store.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Categories returns the distinct product categories.
func (s *Service) Categories(_ context.Context) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range s.repository.FindAll() {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// Featured returns at most n products from the head of the catalog.
func (s *Service) Featured(_ context.Context, n int) []store.Product {
	products := s.repository.FindAll()
	if n < 0 {
		n = 0
	}
	if n < len(products) {
		products = products[:n]
	}
	return products
}
