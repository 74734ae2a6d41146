// Package cart holds the authoritative in-memory shopping cart.
//
// The Store is the only writer of cart state. Every applied mutation is published
// synchronously to all observers before the next mutation can start, so every UI
// surface observing the cart sees the same sequence of states.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abgdnv/storefront/internal/catalog/store"
	storeerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/platform/observable"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update_quantity"
	opClear  = "clear"
	opDrain  = "drain"
)

// Store owns the cart state.
// Observers run on the mutating goroutine and must not call mutating methods.
type Store struct {
	// writeMu serializes mutations together with their notification.
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   State
	subject observable.Subject[State]

	mutations metric.Int64Counter
	observers metric.Int64UpDownCounter
}

// Option configures a Store.
type Option func(*options)

type options struct {
	meter metric.Meter
}

// WithMeter sets the meter used for cart metrics. The global meter is used otherwise.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// NewStore creates an empty cart.
func NewStore(opts ...Option) *Store {
	o := options{meter: otel.Meter("cart-store")}
	for _, opt := range opts {
		opt(&o)
	}
	mutations, err := o.meter.Int64Counter("cart_mutations", metric.WithDescription("Total number of applied cart mutations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create cart_mutations counter: %v", err))
	}
	observers, err := o.meter.Int64UpDownCounter("cart_observers", metric.WithDescription("Number of subscribed cart observers"))
	if err != nil {
		panic(fmt.Sprintf("failed to create cart_observers counter: %v", err))
	}
	return &Store{
		mutations: mutations,
		observers: observers,
	}
}

// AddToCart adds quantity units of product. An existing line item for the same
// product id is incremented; otherwise a new line item is appended.
// Returns ErrInvalidArgument, leaving the cart untouched, for a non-positive product id,
// a negative price or a quantity below one.
func (s *Store) AddToCart(product store.Product, quantity int) error {
	if product.ID <= 0 {
		return fmt.Errorf("%w: product id must be positive, got %d", storeerrors.ErrInvalidArgument, product.ID)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("%w: product %d has negative price %s", storeerrors.ErrInvalidArgument, product.ID, product.Price)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", storeerrors.ErrInvalidArgument, quantity)
	}

	s.mutate(opAdd, func(items []LineItem) ([]LineItem, bool) {
		next := slices.Clone(items)
		if i := indexOf(next, product.ID); i >= 0 {
			next[i].Quantity += quantity
			return next, true
		}
		return append(next, LineItem{Product: product, Quantity: quantity}), true
	})
	return nil
}

// RemoveFromCart removes the line item for productID. Removing an absent product is a no-op.
func (s *Store) RemoveFromCart(productID int) {
	s.mutate(opRemove, func(items []LineItem) ([]LineItem, bool) {
		i := indexOf(items, productID)
		if i < 0 {
			return items, false
		}
		return slices.Delete(slices.Clone(items), i, i+1), true
	})
}

// UpdateQuantity sets the quantity of the line item for productID.
// A quantity below one leaves the item unchanged; only RemoveFromCart removes items.
// Updating an absent product is a no-op.
func (s *Store) UpdateQuantity(productID int, quantity int) {
	if quantity < 1 {
		return
	}
	s.mutate(opUpdate, func(items []LineItem) ([]LineItem, bool) {
		i := indexOf(items, productID)
		if i < 0 || items[i].Quantity == quantity {
			return items, false
		}
		next := slices.Clone(items)
		next[i].Quantity = quantity
		return next, true
	})
}

// ClearCart empties the cart and always notifies observers.
func (s *Store) ClearCart() {
	s.mutate(opClear, func([]LineItem) ([]LineItem, bool) {
		return nil, true
	})
}

// Drain empties the cart and returns the state it held, as one mutation.
// Draining an empty cart is a no-op and returns an empty state.
func (s *Store) Drain() State {
	var drained State
	s.mutate(opDrain, func(items []LineItem) ([]LineItem, bool) {
		if len(items) == 0 {
			return items, false
		}
		drained = State{Items: slices.Clone(items), Version: s.state.Version}
		return nil, true
	})
	return drained
}

// Total returns the sum of price × quantity over all line items.
func (s *Store) Total() decimal.Decimal {
	return s.Snapshot().Total()
}

// ItemsCount returns the sum of all quantities.
func (s *Store) ItemsCount() int {
	return s.Snapshot().ItemsCount()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive every new state. The returned function unregisters it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.observers.Add(context.Background(), 1)
	remove := s.subject.Subscribe(fn)
	var once sync.Once
	return func() {
		once.Do(func() {
			remove()
			s.observers.Add(context.Background(), -1)
		})
	}
}

// ObserverCount returns the number of subscribed observers.
func (s *Store) ObserverCount() int {
	return s.subject.Len()
}

// mutate applies fn to the current items and, when fn reports a change,
// installs the result and notifies observers while still holding writeMu.
func (s *Store) mutate(op string, fn func([]LineItem) ([]LineItem, bool)) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next, changed := fn(s.state.Items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.state = State{Items: next, Version: s.state.Version + 1}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.mutations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("operation", op)))
	s.subject.Publish(snapshot)
}

func (s *Store) snapshotLocked() State {
	return State{
		Items:   slices.Clone(s.state.Items),
		Version: s.state.Version,
	}
}

func indexOf(items []LineItem, productID int) int {
	return slices.IndexFunc(items, func(li LineItem) bool {
		return li.Product.ID == productID
	})
}
