package domain

import (
	"time"

	"storefrontWs/internal/shared/normalization"
)

// NormalizeOrder reads one order record. Both the flat history shape
// ({restaurantId, restaurantName}) and the checkout shape ({restaurant: {id, name}}) are accepted.
func NormalizeOrder(raw map[string]any) (Order, bool) {
	if raw == nil {
		return Order{}, false
	}
	order := Order{
		ID:            normalization.AsString(raw["id"]),
		TransactionID: normalization.AsString(raw["transactionId"]),
		Status:        normalization.AsString(raw["status"]),
		PaymentMethod: normalization.AsString(raw["paymentMethod"]),
	}
	if order.ID == "" && order.TransactionID == "" {
		return Order{}, false
	}
	if pricing, ok := raw["pricing"].(map[string]any); ok {
		order.Pricing = Pricing{
			Subtotal:    normalization.AsFloat64(pricing["subtotal"]),
			DeliveryFee: normalization.AsFloat64(pricing["deliveryFee"]),
			ServiceFee:  normalization.AsFloat64(pricing["serviceFee"]),
			TotalPrice:  normalization.AsFloat64(pricing["totalPrice"]),
		}
	}
	if created := normalization.AsString(raw["createdAt"]); created != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, created); err == nil {
			order.CreatedAt = parsed
		}
	}
	for _, entry := range normalization.AsInterfaceSlice(raw["restaurants"]) {
		restaurant, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		order.Restaurants = append(order.Restaurants, normalizeOrderedRestaurant(restaurant))
	}
	return order, true
}

func normalizeOrderedRestaurant(raw map[string]any) OrderedRestaurant {
	out := OrderedRestaurant{
		RestaurantID:   normalization.AsString(raw["restaurantId"]),
		RestaurantName: normalization.AsString(raw["restaurantName"]),
		Subtotal:       normalization.AsFloat64(raw["subtotal"]),
	}
	if nested, ok := raw["restaurant"].(map[string]any); ok {
		if out.RestaurantID == "" {
			out.RestaurantID = normalization.AsString(nested["id"])
		}
		if out.RestaurantName == "" {
			out.RestaurantName = normalization.AsString(nested["name"])
		}
	}
	for _, entry := range normalization.AsInterfaceSlice(raw["items"]) {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out.Items = append(out.Items, OrderedItem{
			MenuID:    normalization.AsString(item["menuId"]),
			MenuName:  normalization.AsString(item["menuName"]),
			Price:     normalization.AsFloat64(item["price"]),
			Quantity:  normalization.AsInt(item["quantity"]),
			ItemTotal: normalization.AsFloat64(item["itemTotal"]),
		})
	}
	return out
}
