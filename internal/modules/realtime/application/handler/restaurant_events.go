package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefrontWs/internal/modules/realtime/application/port"
	"storefrontWs/internal/modules/realtime/application/usecase"
	"storefrontWs/internal/modules/realtime/domain"
)

// RestaurantEventsHandler reacts to upstream restaurant changes: cached listings are dropped
// and every socket is told to refresh.
type RestaurantEventsHandler struct {
	topic       string
	invalidator port.ListingInvalidator
	broadcastUC *usecase.BroadcastUseCase
	now         func() time.Time
}

func NewRestaurantEventsHandler(topic string, invalidator port.ListingInvalidator, broadcastUC *usecase.BroadcastUseCase) *RestaurantEventsHandler {
	return &RestaurantEventsHandler{
		topic:       strings.TrimSpace(topic),
		invalidator: invalidator,
		broadcastUC: broadcastUC,
		now:         time.Now,
	}
}

func (h *RestaurantEventsHandler) Topic() string { return h.topic }

func (h *RestaurantEventsHandler) Handle(ctx context.Context, msg *domain.Message) error {
	restaurantID := strings.TrimSpace(msg.ResourceID)
	if restaurantID == "" {
		restaurantID = strings.TrimSpace(msg.Metadata["restaurantId"])
	}
	slog.Info("restaurant event", slog.String("topic", h.topic), slog.String("action", msg.Action), slog.String("restaurantId", restaurantID))

	if h.invalidator != nil {
		h.invalidator.InvalidateListings(ctx, restaurantID)
	}
	h.broadcastUC.Execute(ctx, domain.BuildBroadcastMessage(
		domain.ListingEntity,
		domain.ActionInvalidated,
		restaurantID,
		map[string]string{"reason": h.topic},
		h.now(),
		domain.Metadata{"restaurantAction": msg.Action},
	))
	return nil
}

var _ port.TopicHandler = (*RestaurantEventsHandler)(nil)
