// Package notifier sends order confirmations for placed orders received from the broker.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/storefront/internal/cart"
	"github.com/abgdnv/storefront/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// Message is the part of a broker message the notifier reads and settles.
type Message interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
}

// Notifier turns order-placed events into confirmations. Delivery is a structured log line.
type Notifier struct {
	logger *slog.Logger
	sent   metric.Int64Counter
}

func New(logger *slog.Logger) *Notifier {
	meter := otel.Meter("order-notifier")
	sent, err := meter.Int64Counter("order_confirmations_sent", metric.WithDescription("Total number of sent order confirmations"))
	if err != nil {
		panic(fmt.Sprintf("failed to create order_confirmations_sent counter: %v", err))
	}
	return &Notifier{
		logger: logger.With("component", "notifier"),
		sent:   sent,
	}
}

// Handle acks a well-formed event once the confirmation is sent and naks anything it cannot decode.
func (n *Notifier) Handle(ctx context.Context, msg Message) {
	var event events.OrderPlacedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		n.logger.ErrorContext(ctx, "failed to unmarshal message", "error", err, "subject", msg.Subject())
		if err := msg.Nak(); err != nil {
			n.logger.ErrorContext(ctx, "failed to nack message", "error", err)
		}
		return
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(event.Carrier))

	n.logger.InfoContext(ctx, "order confirmation sent",
		slog.String("subject", msg.Subject()),
		slog.String("order_id", event.OrderID.String()),
		slog.Int("items_count", event.ItemsCount),
		slog.String("total", cart.FormatPrice(event.Total)),
		slog.String("placed_at", event.PlacedAt.Format(time.RFC3339)))
	n.sent.Add(ctx, 1)

	if err := msg.Ack(); err != nil {
		n.logger.ErrorContext(ctx, "failed to ack message", "error", err)
	}
}
