package port

import (
	"context"
	"errors"

	cart "storefrontWs/internal/modules/cart/domain"
	"storefrontWs/internal/modules/checkout/domain"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrOrderUnauthorized       = errors.New("order service requires a signed-in user")
	ErrOrderRejected           = errors.New("order rejected by order service")
	ErrOrderServiceUnavailable = errors.New("order service unavailable")
)

// OrderGateway talks to the upstream order service.
type OrderGateway interface {
	PlaceOrder(ctx context.Context, token string, request domain.OrderRequest) (domain.Order, error)
	ListOrders(ctx context.Context, token string, query domain.OrderQuery) (domain.OrderPage, error)
}

// OrderEventPublisher announces placed orders on the event bus.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error
}

// Cart is the part of a session cart checkout needs.
type Cart interface {
	Snapshot() cart.Snapshot
	Dispatch(ctx context.Context, action cart.Action) cart.Snapshot
}

// AddressBook looks up the delivery address saved on the caller's profile.
type AddressBook interface {
	DeliveryAddress(ctx context.Context, token string) (string, error)
}
