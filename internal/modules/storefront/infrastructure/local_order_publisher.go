package infrastructure

import (
	"context"

	"storefrontWs/internal/modules/checkout/application/port"
	checkout "storefrontWs/internal/modules/checkout/domain"
	realtime "storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/modules/storefront/application/usecase"
)

// LocalOrderPublisher delivers orders.created straight to the ordering session's sockets.
// It stands in for the kafka publisher when no brokers are configured.
type LocalOrderPublisher struct {
	notifier usecase.Notifier
}

func NewLocalOrderPublisher(notifier usecase.Notifier) *LocalOrderPublisher {
	return &LocalOrderPublisher{notifier: notifier}
}

func (p *LocalOrderPublisher) PublishOrderCreated(ctx context.Context, event checkout.OrderCreatedEvent) error {
	if p.notifier == nil {
		return nil
	}
	p.notifier.ToSession(ctx, event.SessionID, realtime.OrderEntity, realtime.ActionCreated, event, realtime.Metadata{
		realtime.MetaUserID: event.UserID,
	})
	return nil
}

var _ port.OrderEventPublisher = (*LocalOrderPublisher)(nil)
