package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	cart "storefrontWs/internal/modules/cart/domain"
	"storefrontWs/internal/modules/checkout/application/port"
	"storefrontWs/internal/modules/checkout/domain"
	"storefrontWs/internal/shared/validation"
)

// CheckoutInput is what the buyer submits.
type CheckoutInput struct {
	PaymentMethod   string `json:"paymentMethod" validate:"required,oneof=bni bri bca mandiri"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required,max=500"`
	Notes           string `json:"notes" validate:"max=500"`
}

// Caller identifies who checks out.
type Caller struct {
	SessionID string
	UserID    string
	Token     string
}

type CheckoutResult struct {
	Order   domain.Order   `json:"order"`
	Pricing domain.Pricing `json:"pricing"`
	Cart    cart.Snapshot  `json:"cart"`
}

// Summary is the pre-checkout view of a cart.
type Summary struct {
	Groups  []cart.RestaurantGroup `json:"restaurants"`
	Pricing domain.Pricing         `json:"pricing"`
}

type CheckoutUseCase struct {
	gateway   port.OrderGateway
	publisher port.OrderEventPublisher
	addresses port.AddressBook
	fees      domain.Fees
	now       func() time.Time
}

func NewCheckoutUseCase(gateway port.OrderGateway, publisher port.OrderEventPublisher, fees domain.Fees) *CheckoutUseCase {
	return &CheckoutUseCase{gateway: gateway, publisher: publisher, fees: fees, now: time.Now}
}

// WithAddressBook fills a missing delivery address from the caller's saved profile.
func (uc *CheckoutUseCase) WithAddressBook(addresses port.AddressBook) *CheckoutUseCase {
	uc.addresses = addresses
	return uc
}

// Summarize groups the cart by restaurant and prices it.
func (uc *CheckoutUseCase) Summarize(snapshot cart.Snapshot) Summary {
	groups := snapshot.GroupByRestaurant()
	if groups == nil {
		groups = []cart.RestaurantGroup{}
	}
	return Summary{Groups: groups, Pricing: uc.fees.Quote(snapshot)}
}

// Checkout places an order for the cart and removes the ordered lines once the order service
// accepted it. Anything added to the cart during the call stays.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, caller Caller, sessionCart port.Cart, input CheckoutInput) (CheckoutResult, error) {
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	if input.DeliveryAddress == "" {
		input.DeliveryAddress = uc.savedAddress(ctx, caller)
	}
	if err := validation.Struct(input); err != nil {
		return CheckoutResult{}, err
	}
	if caller.Token == "" {
		return CheckoutResult{}, port.ErrOrderUnauthorized
	}
	snapshot := sessionCart.Snapshot()
	if len(snapshot.Items) == 0 {
		return CheckoutResult{}, port.ErrEmptyCart
	}

	request := domain.BuildOrderRequest(snapshot, input.PaymentMethod, input.DeliveryAddress, input.Notes)
	pricing := uc.fees.Quote(snapshot)

	order, err := uc.gateway.PlaceOrder(ctx, caller.Token, request)
	if err != nil {
		slog.Warn("checkout order failed", slog.String("sessionId", caller.SessionID), slog.Any("error", err))
		return CheckoutResult{}, err
	}
	slog.Info("checkout order placed",
		slog.String("sessionId", caller.SessionID),
		slog.String("orderId", order.ID),
		slog.Int("restaurants", len(request.Restaurants)),
	)

	uc.publish(ctx, caller, order, request, pricing)
	remaining := sessionCart.Dispatch(ctx, cart.RemoveOrdered{Lines: snapshot.Items})

	return CheckoutResult{Order: order, Pricing: pricing, Cart: remaining}, nil
}

func (uc *CheckoutUseCase) savedAddress(ctx context.Context, caller Caller) string {
	if uc.addresses == nil || caller.Token == "" {
		return ""
	}
	address, err := uc.addresses.DeliveryAddress(ctx, caller.Token)
	if err != nil {
		slog.Warn("saved address lookup failed", slog.String("sessionId", caller.SessionID), slog.Any("error", err))
		return ""
	}
	return address
}

func (uc *CheckoutUseCase) publish(ctx context.Context, caller Caller, order domain.Order, request domain.OrderRequest, pricing domain.Pricing) {
	if uc.publisher == nil {
		return
	}
	restaurants := make([]string, 0, len(request.Restaurants))
	for _, r := range request.Restaurants {
		restaurants = append(restaurants, string(r.RestaurantID))
	}
	total := order.Pricing.TotalPrice
	if total == 0 {
		total = pricing.TotalPrice
	}
	event := domain.OrderCreatedEvent{
		EventID:       uuid.NewString(),
		SessionID:     caller.SessionID,
		UserID:        caller.UserID,
		OrderID:       order.ID,
		TransactionID: order.TransactionID,
		Restaurants:   restaurants,
		TotalPrice:    total,
		OccurredAt:    uc.now().UTC(),
	}
	if err := uc.publisher.PublishOrderCreated(ctx, event); err != nil {
		slog.Warn("order event publish failed", slog.String("orderId", order.ID), slog.Any("error", err))
	}
}

// ListOrders returns the caller's order history.
func (uc *CheckoutUseCase) ListOrders(ctx context.Context, token string, query domain.OrderQuery) (domain.OrderPage, error) {
	if err := validation.Struct(query); err != nil {
		return domain.OrderPage{}, err
	}
	if token == "" {
		return domain.OrderPage{}, port.ErrOrderUnauthorized
	}
	page, err := uc.gateway.ListOrders(ctx, token, query.Normalize())
	if err != nil && !errors.Is(err, port.ErrOrderUnauthorized) {
		slog.Warn("order history fetch failed", slog.Any("error", err))
	}
	return page, err
}
