package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Ashish-AN/Swadist/internal/domain"
	"github.com/Ashish-AN/Swadist/internal/order"
)

const FulfillmentTopic = "fulfillment-events"

// DeliveryMarker is the slice of the order ledger the consumer drives.
type DeliveryMarker interface {
	MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// FulfillmentConsumer applies delivery confirmations from the fulfillment
// pipeline to the order ledger.
type FulfillmentConsumer struct {
	reader *kafka.Reader
	ledger DeliveryMarker
}

func NewFulfillmentConsumer(ledger DeliveryMarker, brokers ...string) *FulfillmentConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    FulfillmentTopic,
		GroupID:  "swadist-order-ledger",
		MaxBytes: 10e6, // 10MB
	})
	return &FulfillmentConsumer{reader: reader, ledger: ledger}
}

func (c *FulfillmentConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("error reading fulfillment message: %v", err)
			}
			continue
		}

		if err := c.handleMessage(ctx, m.Value); err != nil {
			log.Printf("fulfillment message dropped: %v", err)
		}
	}
}

func (c *FulfillmentConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing fulfillment reader: %v", err)
	}
}

type fulfillmentEvent struct {
	OrderID string `json:"order_id"`
}

func (c *FulfillmentConsumer) handleMessage(ctx context.Context, payload []byte) error {
	var event fulfillmentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("parse fulfillment event: %w", err)
	}

	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", event.OrderID, err)
	}

	_, err = c.ledger.MarkDelivered(ctx, orderID)
	if err != nil {
		// A signal for a cancelled or already-delivered order is stale, not
		// fatal; anything else should surface.
		if errors.Is(err, order.ErrStateConflict) || errors.Is(err, order.ErrOrderNotFound) {
			log.Printf("stale fulfillment signal for order %s: %v", orderID, err)
			return nil
		}
		return fmt.Errorf("mark order %s delivered: %w", orderID, err)
	}

	log.Printf("order %s marked delivered", orderID)
	return nil
}
