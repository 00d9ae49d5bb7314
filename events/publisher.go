// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const OrderCreated = "order.created"

type OrderLine struct {
	MenuItemID uint    `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

type OrderEvent struct {
	Type         string      `json:"type"`
	OrderID      uint        `json:"order_id"`
	UserID       uint        `json:"user_id"`
	RestaurantID uint        `json:"restaurant_id,omitempty"`
	Lines        []OrderLine `json:"lines"`
	Dropped      int         `json:"dropped_items"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Publisher is implemented by KafkaPublisher and NopPublisher.
type Publisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaWriter creates a writer balancing by least bytes across brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: NewKafkaWriter(brokers, topic)}
}

// New returns a NopPublisher when no brokers are configured.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

// PublishOrder keys the message by order id so all events for one order land
// on the same partition.
func (p *KafkaPublisher) PublishOrder(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%d", event.OrderID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) PublishOrder(context.Context, OrderEvent) error { return nil }
func (NopPublisher) Close() error { return nil }
