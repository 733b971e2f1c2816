package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"storefrontWs/internal/modules/checkout/application/port"
	checkout "storefrontWs/internal/modules/checkout/domain"
	"storefrontWs/internal/modules/realtime/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOrderPublisher writes orders.created events keyed by order id.
type KafkaOrderPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaOrderPublisher(brokers []string, topic string) *KafkaOrderPublisher {
	if topic == "" {
		topic = domain.TopicOrderCreated
	}
	return &KafkaOrderPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (p *KafkaOrderPublisher) PublishOrderCreated(ctx context.Context, event checkout.OrderCreatedEvent) error {
	record, err := encodeOrderCreated(p.topic, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("publish %s: %w", p.topic, err)
	}
	slog.Debug("kafka order event published", slog.String("topic", p.topic), slog.String("orderId", event.OrderID))
	return nil
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}

// encodeOrderCreated wraps the event in the envelope decodeMessage reads, so every instance
// consuming the topic can route it to the ordering session's sockets.
func encodeOrderCreated(topic string, event checkout.OrderCreatedEvent) (kafka.Message, error) {
	envelope := rawEvent{
		Entity:     domain.OrderEntity,
		Action:     domain.ActionCreated,
		ResourceID: event.OrderID,
		Topic:      topic,
		Metadata: map[string]string{
			domain.MetaSessionID: event.SessionID,
		},
		Data:      event,
		Timestamp: event.OccurredAt,
	}
	if event.UserID != "" {
		envelope.Metadata[domain.MetaUserID] = event.UserID
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode order event: %w", err)
	}
	return kafka.Message{Key: []byte(event.OrderID), Value: value}, nil
}

var _ port.OrderEventPublisher = (*KafkaOrderPublisher)(nil)
