package cart

import (
	"github.com/abgdnv/storefront/internal/catalog/store"
	"github.com/shopspring/decimal"
)

// DefaultQuantity is added when a caller does not specify a quantity.
const DefaultQuantity = 1

// LineItem ties one product to the quantity in the cart.
type LineItem struct {
	Product  store.Product
	Quantity int
}

// Subtotal returns price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// State is an immutable snapshot of the cart.
// Items are in insertion order and hold at most one entry per product id.
// Version increases by one with every applied mutation.
type State struct {
	Items   []LineItem
	Version uint64
}

// Total returns the sum of all line subtotals; zero for an empty cart.
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemsCount returns the sum of all quantities, not the number of line items.
func (s State) ItemsCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Len returns the number of distinct line items.
func (s State) Len() int {
	return len(s.Items)
}

// IsEmpty reports whether the cart has no line items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Find returns the line item for productID.
func (s State) Find(productID int) (LineItem, bool) {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}
