package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	storeerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoProducts = `[
  {"id": 1, "name": "Toy", "price": 10.00, "description": "A toy", "category": "Kids", "image": "toy.png"},
  {"id": 2, "name": "Book", "price": 5.5, "description": "A book", "category": "Books", "image": "book.png"}
]`

func Test_NewJSONStore(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectedLen int
		expectError error
	}{
		{name: "Success - two products", input: twoProducts, expectedLen: 2},
		{name: "Success - empty catalog", input: `[]`, expectedLen: 0},
		{name: "Error - malformed json", input: `[{"id": 1,`, expectError: storeerrors.ErrInvalidCatalog},
		{name: "Error - zero id", input: `[{"id": 0, "name": "X", "price": 1}]`, expectError: storeerrors.ErrInvalidCatalog},
		{name: "Error - duplicate id", input: `[{"id": 1, "name": "X", "price": 1}, {"id": 1, "name": "Y", "price": 2}]`, expectError: storeerrors.ErrInvalidCatalog},
		{name: "Error - missing name", input: `[{"id": 1, "price": 1}]`, expectError: storeerrors.ErrInvalidCatalog},
		{name: "Error - negative price", input: `[{"id": 1, "name": "X", "price": -0.01}]`, expectError: storeerrors.ErrInvalidCatalog},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			s, err := NewJSONStore(strings.NewReader(tc.input))
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.FindAll(), tc.expectedLen)
		})
	}
}

func Test_JSONStore_FindByID(t *testing.T) {
	// given
	s, err := NewJSONStore(strings.NewReader(twoProducts))
	require.NoError(t, err)

	t.Run("Success - product found", func(t *testing.T) {
		found, err := s.FindByID(2)
		require.NoError(t, err)
		assert.Equal(t, "Book", found.Name)
		assert.True(t, decimal.RequireFromString("5.50").Equal(found.Price))
	})

	t.Run("Error - product not found", func(t *testing.T) {
		found, err := s.FindByID(99)
		assert.ErrorIs(t, err, storeerrors.ErrProductNotFound)
		assert.Nil(t, found)
	})
}

func Test_JSONStore_ReturnsCopies(t *testing.T) {
	// given
	s, err := NewJSONStore(strings.NewReader(twoProducts))
	require.NoError(t, err)

	// when
	list := s.FindAll()
	list[0].Name = "changed"
	found, _ := s.FindByID(1)
	found.Name = "changed too"

	// then
	again, err := s.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Toy", again.Name)
	assert.Equal(t, "Toy", s.FindAll()[0].Name)
}

func Test_JSONStore_KeepsCatalogOrder(t *testing.T) {
	s, err := NewJSONStore(strings.NewReader(twoProducts))
	require.NoError(t, err)

	list := s.FindAll()
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 2, list[1].ID)
}

func Test_LoadFile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(twoProducts), 0o600))

		s, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, s.FindAll(), 2)
	})

	t.Run("Error - missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func Test_LoadDefault(t *testing.T) {
	s, err := LoadDefault()
	require.NoError(t, err)
	assert.NotEmpty(t, s.FindAll())
}
