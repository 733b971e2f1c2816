package port

import (
	"context"

	"storefrontWs/internal/modules/realtime/domain"
)

// PubSubPort consumes external events (Kafka).
type PubSubPort interface {
	Consume(ctx context.Context, handler func(*domain.Message) error) error
}

// Broadcaster pushes messages to websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler is implemented by handlers registered per event-bus topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}

// ListingInvalidator drops cached listing data after a restaurant changed upstream.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context, restaurantID string)
}
