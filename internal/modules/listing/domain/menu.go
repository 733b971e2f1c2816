package domain

import "storefrontWs/internal/shared/normalization"

// MenuItem is one orderable dish of a restaurant.
type MenuItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Category     string  `json:"category,omitempty"`
	RestaurantID string  `json:"restaurantId"`
}

// NormalizeMenuItem accepts both the menu and the legacy dish payload shapes.
func NormalizeMenuItem(raw map[string]any, restaurantID string) (MenuItem, bool) {
	item := MenuItem{
		ID:           normalization.AsString(raw["id"]),
		Name:         normalization.FirstString(raw, "name", "foodName"),
		Price:        normalization.AsFloat64(raw["price"]),
		Description:  normalization.AsString(raw["description"]),
		ImageURL:     normalization.FirstString(raw, "imageUrl", "image"),
		Category:     normalization.FirstString(raw, "category", "type"),
		RestaurantID: normalization.FirstString(raw, "restaurantId"),
	}
	if item.ID == "" {
		return MenuItem{}, false
	}
	if item.RestaurantID == "" {
		item.RestaurantID = restaurantID
	}
	return item, true
}
