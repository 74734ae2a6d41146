package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is emitted when a checkout completes.
// Carrier holds the trace context of the checkout request.
type OrderPlacedEvent struct {
	Carrier    map[string]string `json:"carrier,omitempty"`
	OrderID    uuid.UUID         `json:"order_id"`
	Items      []OrderPlacedItem `json:"items"`
	ItemsCount int               `json:"items_count"`
	Total      decimal.Decimal   `json:"total"`
	PlacedAt   time.Time         `json:"placed_at"`
}

// OrderPlacedItem is one line of a placed order.
type OrderPlacedItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
