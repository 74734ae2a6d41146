// Package service provides the mock checkout on top of the cart.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/storefront/internal/cart"
	storeerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// CheckoutService turns the current cart into an order confirmation.
type CheckoutService interface {
	// Summary returns the priced view of the cart shown before placing the order.
	Summary(ctx context.Context) SummaryDto

	// PlaceOrder confirms the order and empties the cart.
	// Returns ErrEmptyCart if there is nothing to order.
	PlaceOrder(ctx context.Context) (*OrderDto, error)
}

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Snapshot() cart.State
	Drain() cart.State
}

// Service implements CheckoutService.
type Service struct {
	cart          Cart
	publisher     messaging.Publisher
	logger        *slog.Logger
	now           func() time.Time
	ordersCounter metric.Int64Counter
}

// NewService creates a checkout service. A nil publisher discards order events.
func NewService(c Cart, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter("checkout-service")
	ordersCounter, err := meter.Int64Counter("orders_placed", metric.WithDescription("Total number of placed orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_placed counter: %v", err))
	}
	return &Service{
		cart:          c,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
		ordersCounter: ordersCounter,
	}
}

// ItemDto is one priced line of the cart.
type ItemDto struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SummaryDto is the checkout page view of the cart.
// Shipping is always free and no tax is charged.
type SummaryDto struct {
	Items          []ItemDto       `json:"items"`
	ItemsCount     int             `json:"items_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
	Currency       string          `json:"currency"`
}

// OrderDto is the confirmation of a placed order.
type OrderDto struct {
	ID             uuid.UUID       `json:"id"`
	Items          []ItemDto       `json:"items"`
	ItemsCount     int             `json:"items_count"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formatted_total"`
	Currency       string          `json:"currency"`
	PlacedAt       string          `json:"placed_at"`
}

func (s *Service) Summary(_ context.Context) SummaryDto {
	state := s.cart.Snapshot()
	subtotal := state.Total()
	shipping, tax := decimal.Zero, decimal.Zero
	total := subtotal.Add(shipping).Add(tax)
	return SummaryDto{
		Items:          toItems(state),
		ItemsCount:     state.ItemsCount(),
		Subtotal:       subtotal,
		Shipping:       shipping,
		Tax:            tax,
		Total:          total,
		FormattedTotal: cart.FormatPrice(total),
		Currency:       cart.Currency,
	}
}

func (s *Service) PlaceOrder(ctx context.Context) (*OrderDto, error) {
	state := s.cart.Drain()
	if state.IsEmpty() {
		return nil, storeerrors.ErrEmptyCart
	}

	placedAt := s.now().UTC()
	order := &OrderDto{
		ID:             uuid.New(),
		Items:          toItems(state),
		ItemsCount:     state.ItemsCount(),
		Total:          state.Total(),
		FormattedTotal: cart.FormatPrice(state.Total()),
		Currency:       cart.Currency,
		PlacedAt:       placedAt.Format(time.RFC3339),
	}

	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.OrderPlacedEvent{
		Carrier:    carrier,
		OrderID:    order.ID,
		Items:      toEventItems(state),
		ItemsCount: order.ItemsCount,
		Total:      order.Total,
		PlacedAt:   placedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish OrderPlacedEvent", "order_id", order.ID, "error", err)
	}
	s.ordersCounter.Add(ctx, 1)
	s.logger.InfoContext(ctx, "Order placed", "order_id", order.ID, "items_count", order.ItemsCount, "total", order.FormattedTotal)

	return order, nil
}

func toItems(state cart.State) []ItemDto {
	items := make([]ItemDto, 0, len(state.Items))
	for _, li := range state.Items {
		items = append(items, ItemDto{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Image:     li.Product.Image,
			Price:     li.Product.Price,
			Quantity:  li.Quantity,
			Subtotal:  li.Subtotal(),
		})
	}
	return items
}

func toEventItems(state cart.State) []events.OrderPlacedItem {
	items := make([]events.OrderPlacedItem, 0, len(state.Items))
	for _, li := range state.Items {
		items = append(items, events.OrderPlacedItem{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Quantity:  li.Quantity,
			Price:     li.Product.Price,
		})
	}
	return items
}
