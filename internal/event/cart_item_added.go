package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tuanvumaihuynh/pos-station/internal/model"
	"github.com/tuanvumaihuynh/pos-station/internal/storage/mq"
	"github.com/tuanvumaihuynh/pos-station/pkg/msgheader"
)

// CartItemAddedEvent is emitted every time a product card adds a unit to a station cart.
type CartItemAddedEvent struct {
	StationID      int64     `json:"stationId"`
	OrganizationID int64     `json:"organizationId"`
	ProductID      int64     `json:"productId"`
	ProductName    string    `json:"productName"`
	Quantity       int       `json:"quantity"`
	MaxQuantity    int       `json:"maxQuantity"`
	UnitPrice      float64   `json:"unitPrice"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewCartItemAddedEvent builds the event for the cart line after the add.
func NewCartItemAddedEvent(stationID int64, product model.Product, item model.CartItem, now time.Time) CartItemAddedEvent {
	return CartItemAddedEvent{
		StationID:      stationID,
		OrganizationID: product.OrganizationID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		Quantity:       item.Quantity,
		MaxQuantity:    item.MaxQuantity,
		UnitPrice:      item.UnitPrice,
		OccurredAt:     now,
	}
}

type Publisher interface {
	PublishCartItemAdded(ctx context.Context, ev CartItemAddedEvent) error
}

type publisher struct {
	logger   *slog.Logger
	producer mq.Producer
	topic    string
}

// NewPublisher creates a publisher producing cart events to topic.
func NewPublisher(logger *slog.Logger, producer mq.Producer, topic string) Publisher {
	return &publisher{
		logger:   logger.With(slog.String("component", "event_publisher")),
		producer: producer,
		topic:    topic,
	}
}

func (p *publisher) PublishCartItemAdded(ctx context.Context, ev CartItemAddedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal cart item added event: %w", err)
	}

	key := strconv.FormatInt(ev.StationID, 10)
	if err := p.producer.Produce(ctx, mq.ProduceMsg{
		Topic:        p.topic,
		Headers:      msgheader.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: &key,
	}); err != nil {
		return fmt.Errorf("produce cart item added event: %w", err)
	}

	p.logger.DebugContext(ctx, "cart item added event published",
		slog.Int64("station_id", ev.StationID),
		slog.Int64("product_id", ev.ProductID),
	)

	return nil
}
