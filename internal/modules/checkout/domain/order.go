package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	cart "storefrontWs/internal/modules/cart/domain"
)

// Payment methods accepted by the order service.
const (
	PaymentBNI     = "bni"
	PaymentBRI     = "bri"
	PaymentBCA     = "bca"
	PaymentMandiri = "mandiri"
)

// NumericID is an identifier sent as a JSON number when it parses as an integer.
type NumericID string

func (id NumericID) MarshalJSON() ([]byte, error) {
	trimmed := strings.TrimSpace(string(id))
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(trimmed)
}

type OrderLine struct {
	MenuID   NumericID `json:"menuId"`
	Quantity int       `json:"quantity"`
	Notes    string    `json:"notes,omitempty"`
}

type RestaurantOrder struct {
	RestaurantID NumericID   `json:"restaurantId"`
	Items        []OrderLine `json:"items"`
}

// OrderRequest is the checkout payload of the order service.
type OrderRequest struct {
	PaymentMethod   string            `json:"paymentMethod"`
	DeliveryAddress string            `json:"deliveryAddress"`
	Notes           string            `json:"notes,omitempty"`
	Restaurants     []RestaurantOrder `json:"restaurants"`
}

// BuildOrderRequest groups the cart lines by restaurant in first-appearance order.
func BuildOrderRequest(snapshot cart.Snapshot, paymentMethod, deliveryAddress, notes string) OrderRequest {
	groups := snapshot.GroupByRestaurant()
	restaurants := make([]RestaurantOrder, 0, len(groups))
	for _, group := range groups {
		lines := make([]OrderLine, 0, len(group.Items))
		for _, item := range group.Items {
			lines = append(lines, OrderLine{MenuID: NumericID(item.ID), Quantity: item.Quantity})
		}
		restaurants = append(restaurants, RestaurantOrder{RestaurantID: NumericID(group.RestaurantID), Items: lines})
	}
	return OrderRequest{
		PaymentMethod:   strings.TrimSpace(paymentMethod),
		DeliveryAddress: strings.TrimSpace(deliveryAddress),
		Notes:           strings.TrimSpace(notes),
		Restaurants:     restaurants,
	}
}

// Fees are the flat charges added on top of the cart total.
type Fees struct {
	DeliveryFee float64
	ServiceFee  float64
}

type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	ServiceFee  float64 `json:"serviceFee"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Quote prices a cart. An empty cart costs nothing.
func (f Fees) Quote(snapshot cart.Snapshot) Pricing {
	if len(snapshot.Items) == 0 {
		return Pricing{}
	}
	subtotal := cart.ComputeTotal(snapshot.Items)
	return Pricing{
		Subtotal:    subtotal,
		DeliveryFee: f.DeliveryFee,
		ServiceFee:  f.ServiceFee,
		TotalPrice:  subtotal + f.DeliveryFee + f.ServiceFee,
	}
}

type OrderedItem struct {
	MenuID    string  `json:"menuId"`
	MenuName  string  `json:"menuName"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ItemTotal float64 `json:"itemTotal"`
}

type OrderedRestaurant struct {
	RestaurantID   string        `json:"restaurantId"`
	RestaurantName string        `json:"restaurantName"`
	Items          []OrderedItem `json:"items"`
	Subtotal       float64       `json:"subtotal"`
}

// Order is a placed order as reported by the order service.
type Order struct {
	ID            string              `json:"id"`
	TransactionID string              `json:"transactionId"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"paymentMethod"`
	Pricing       Pricing             `json:"pricing"`
	Restaurants   []OrderedRestaurant `json:"restaurants"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// OrderQuery filters the order history.
type OrderQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=preparing on_the_way on-the-way delivered done cancelled canceled"`
	Page   int    `query:"page" validate:"gte=0"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100"`
}

func (q OrderQuery) Normalize() OrderQuery {
	normalized := q
	normalized.Status = strings.TrimSpace(normalized.Status)
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if normalized.Limit <= 0 {
		normalized.Limit = 10
	}
	return normalized
}

type OrderPage struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
}

// OrderCreatedEvent is published after a successful checkout.
type OrderCreatedEvent struct {
	EventID       string    `json:"eventId"`
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId,omitempty"`
	OrderID       string    `json:"orderId"`
	TransactionID string    `json:"transactionId,omitempty"`
	Restaurants   []string  `json:"restaurants"`
	TotalPrice    float64   `json:"totalPrice"`
	OccurredAt    time.Time `json:"occurredAt"`
}
