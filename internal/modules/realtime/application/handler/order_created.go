package handler

import (
	"context"

	"storefrontWs/internal/modules/realtime/application/port"
	"storefrontWs/internal/modules/realtime/application/usecase"
	"storefrontWs/internal/modules/realtime/domain"
)

// OrderCreatedHandler relays orders.created events to the sockets of the ordering session,
// whichever instance placed the order.
type OrderCreatedHandler struct {
	topic   string
	UseCase *usecase.BroadcastUseCase
}

func NewOrderCreatedHandler(topic string, uc *usecase.BroadcastUseCase) *OrderCreatedHandler {
	if topic == "" {
		topic = domain.TopicOrderCreated
	}
	return &OrderCreatedHandler{topic: topic, UseCase: uc}
}

func (h *OrderCreatedHandler) Topic() string { return h.topic }

func (h *OrderCreatedHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg.Metadata.SessionID() == "" && msg.Metadata.UserID() == "" {
		return nil
	}
	relayed := *msg
	relayed.Topic = domain.TopicOrderCreated
	relayed.Entity = domain.OrderEntity
	relayed.Action = domain.ActionCreated
	h.UseCase.Execute(ctx, &relayed)
	return nil
}

var _ port.TopicHandler = (*OrderCreatedHandler)(nil)
