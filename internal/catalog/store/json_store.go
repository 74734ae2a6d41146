package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	storeerrors "github.com/abgdnv/storefront/internal/errors"
)

//go:embed products.json
var defaultCatalog []byte

// jsonStore implements ProductStore over a list decoded once from JSON.
type jsonStore struct {
	products []Product
	byID     map[int]int
}

// NewJSONStore decodes a JSON array of products from r.
// It fails with ErrInvalidCatalog on duplicate or non-positive ids, empty names or negative prices.
func NewJSONStore(r io.Reader) (ProductStore, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: %v", storeerrors.ErrInvalidCatalog, err)
	}

	byID := make(map[int]int, len(products))
	for i, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: product at index %d has invalid id %d", storeerrors.ErrInvalidCatalog, i, p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", storeerrors.ErrInvalidCatalog, p.ID)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("%w: product %d has no name", storeerrors.ErrInvalidCatalog, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %d has negative price %s", storeerrors.ErrInvalidCatalog, p.ID, p.Price)
		}
		byID[p.ID] = i
	}

	return &jsonStore{products: products, byID: byID}, nil
}

// LoadFile reads the catalog from a JSON file.
func LoadFile(path string) (ProductStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return NewJSONStore(f)
}

// LoadDefault reads the catalog bundled with the binary.
func LoadDefault() (ProductStore, error) {
	return NewJSONStore(bytes.NewReader(defaultCatalog))
}

// FindByID retrieves a product by its ID.
func (s *jsonStore) FindByID(id int) (*Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, storeerrors.ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// FindAll returns a copy of the catalog.
func (s *jsonStore) FindAll() []Product {
	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list
}
