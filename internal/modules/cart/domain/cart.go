package domain

import "strings"

// LineItem is one product line in the cart. ID is the line identity used by every mutation.
type LineItem struct {
	ID             string  `json:"id"`
	MenuItemID     string  `json:"menuItemId"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	RestaurantID   string  `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName"`
}

// Snapshot is the persisted cart shape. Total always equals the sum of price*quantity.
type Snapshot struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// Empty returns the canonical empty cart.
func Empty() Snapshot {
	return Snapshot{Items: []LineItem{}, Total: 0}
}

// ComputeTotal sums price*quantity over items.
func ComputeTotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount is the total number of units across all lines.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Clone copies the items slice so callers can't alias the store's state.
func (s Snapshot) Clone() Snapshot {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return Snapshot{Items: items, Total: s.Total}
}

// Sanitize repairs a snapshot read from storage: lines without identity are dropped,
// quantities are clamped to at least one and the stored total is recomputed.
func Sanitize(s Snapshot) Snapshot {
	items := make([]LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		item = canonicalLine(item)
		if item.ID == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		items = append(items, item)
	}
	return Snapshot{Items: items, Total: ComputeTotal(items)}
}

func canonicalLine(item LineItem) LineItem {
	item.ID = strings.TrimSpace(item.ID)
	item.MenuItemID = strings.TrimSpace(item.MenuItemID)
	if item.ID == "" {
		item.ID = item.MenuItemID
	}
	if item.MenuItemID == "" {
		item.MenuItemID = item.ID
	}
	return item
}

// RestaurantGroup is the set of lines belonging to one restaurant.
type RestaurantGroup struct {
	RestaurantID   string     `json:"restaurantId"`
	RestaurantName string     `json:"restaurantName"`
	Items          []LineItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
}

// GroupByRestaurant groups lines by restaurant in first-appearance order.
func (s Snapshot) GroupByRestaurant() []RestaurantGroup {
	groups := make([]RestaurantGroup, 0)
	index := make(map[string]int)
	for _, item := range s.Items {
		pos, ok := index[item.RestaurantID]
		if !ok {
			pos = len(groups)
			index[item.RestaurantID] = pos
			groups = append(groups, RestaurantGroup{RestaurantID: item.RestaurantID, RestaurantName: item.RestaurantName})
		}
		groups[pos].Items = append(groups[pos].Items, item)
		groups[pos].Subtotal += item.Price * float64(item.Quantity)
	}
	return groups
}
