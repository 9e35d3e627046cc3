package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published by the service.
const (
	EventUserRegistered    = "user.registered"
	EventUserLogin         = "auth.login"
	EventShoppingListClose = "shopping_list.closed"
)

// Envelope is the wire shape of a published domain event.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Producer publishes domain events to Kafka. A nil Producer is valid and
// drops every event, so callers never need to branch on whether eventing
// is configured.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers. Returns nil when no
// brokers are configured.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if len(brokers) == 0 {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}

	return &Producer{writer: writer, topic: topic, logger: logger.Named("kafka_producer")}
}

// Publish sends a single domain event. Failures are logged and returned but
// callers treat event publication as best-effort.
func (p *Producer) Publish(ctx context.Context, eventType string, key string, payload interface{}) error {
	if p == nil {
		return nil
	}

	value, err := json.Marshal(Envelope{Type: eventType, OccurredAt: time.Now(), Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
