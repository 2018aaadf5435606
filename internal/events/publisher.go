// Package events connects the order ledger to Kafka: lifecycle events go out
// on order-events, the external fulfillment signal comes in on
// fulfillment-events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Ashish-AN/Swadist/internal/domain"
)

const OrderEventsTopic = "order-events"

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OrderEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

type orderEvent struct {
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	Status     domain.OrderStatus `json:"status"`
	Total      float64            `json:"total"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, order *domain.Order) error {
	payload, err := json.Marshal(orderEvent{
		OrderID:    order.ID.String(),
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()), // order id for per-order ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
