package broker

import (
	"context"
	"log/slog"

	"storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/modules/realtime/infrastructure"
)

// StartKafkaConsumers starts one consumer goroutine per topic, each dispatching into registry.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) {
	if len(brokers) == 0 {
		slog.Info("kafka consumers disabled, no brokers configured")
		return
	}
	for _, topic := range topics {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp), slog.Any("error", err))
		}(topic)
	}
}
