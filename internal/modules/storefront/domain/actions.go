package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	cart "storefrontWs/internal/modules/cart/domain"
	filters "storefrontWs/internal/modules/filters/domain"
	"storefrontWs/internal/shared/normalization"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidPayload = errors.New("invalid action payload")
)

// LineItemPayload is the wire form of a cart line. Numeric ids are accepted as well as strings.
type LineItemPayload struct {
	ID             any     `json:"id"`
	MenuItemID     any     `json:"menuItemId"`
	Name           string  `json:"name" validate:"required,max=200"`
	Price          float64 `json:"price" validate:"gte=0"`
	Quantity       int     `json:"quantity" validate:"gte=0"`
	ImageURL       string  `json:"imageUrl"`
	RestaurantID   any     `json:"restaurantId" validate:"required"`
	RestaurantName string  `json:"restaurantName"`
}

// LineItem converts the payload to the cart's line type.
func (p LineItemPayload) LineItem() cart.LineItem {
	return cart.LineItem{
		ID:             normalization.AsString(p.ID),
		MenuItemID:     normalization.AsString(p.MenuItemID),
		Name:           strings.TrimSpace(p.Name),
		Price:          p.Price,
		Quantity:       p.Quantity,
		ImageURL:       strings.TrimSpace(p.ImageURL),
		RestaurantID:   normalization.AsString(p.RestaurantID),
		RestaurantName: strings.TrimSpace(p.RestaurantName),
	}
}

type lineRef struct {
	ID       any `json:"id"`
	Quantity int `json:"quantity"`
	Delta    int `json:"delta"`
}

// DecodeCartAction turns {type, payload} into a cart action.
//
//	add               payload: line item
//	setQuantity       payload: {id, quantity}
//	changeQuantityBy  payload: {id, delta}
//	remove            payload: {id}
//	clear             no payload
func DecodeCartAction(actionType string, payload json.RawMessage) (cart.Action, error) {
	switch normalizeType(actionType) {
	case "add", "additem", "addline":
		var item LineItemPayload
		if err := unmarshal(payload, &item); err != nil {
			return nil, err
		}
		line := item.LineItem()
		if line.ID == "" && line.MenuItemID == "" {
			return nil, fmt.Errorf("%w: missing id", ErrInvalidPayload)
		}
		return cart.AddLine{Item: line}, nil
	case "setquantity", "updatequantity":
		ref, err := decodeRef(payload)
		if err != nil {
			return nil, err
		}
		return cart.SetQuantity{ID: ref.id, Quantity: ref.Quantity}, nil
	case "changequantityby", "adjustquantity":
		ref, err := decodeRef(payload)
		if err != nil {
			return nil, err
		}
		return cart.ChangeQuantityBy{ID: ref.id, Delta: ref.Delta}, nil
	case "remove", "removeitem", "removeline":
		ref, err := decodeRef(payload)
		if err != nil {
			return nil, err
		}
		return cart.RemoveLine{ID: ref.id}, nil
	case "clear", "clearcart":
		return cart.Clear{}, nil
	default:
		return nil, fmt.Errorf("%w: cart %q", ErrUnknownAction, actionType)
	}
}

type resolvedRef struct {
	lineRef
	id string
}

func decodeRef(payload json.RawMessage) (resolvedRef, error) {
	var ref lineRef
	if err := unmarshal(payload, &ref); err != nil {
		return resolvedRef{}, err
	}
	id := normalization.AsString(ref.ID)
	if id == "" {
		return resolvedRef{}, fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}
	return resolvedRef{lineRef: ref, id: id}, nil
}

// DecodeFilterAction turns {type, payload} into a filter action. Value-carrying actions take
// the value itself as payload ("pizza", "price-asc", "3km", 4). Unknown enum values pass through
// and are ignored by the reducer.
func DecodeFilterAction(actionType string, payload json.RawMessage) (filters.Action, error) {
	switch normalizeType(actionType) {
	case "setsearchquery", "search":
		value, err := decodeString(payload)
		return filters.SetSearchQuery{Value: value}, err
	case "setselectedcategory", "category":
		value, err := decodeString(payload)
		return filters.SetSelectedCategory{Value: value}, err
	case "setsortby", "sortby":
		value, err := decodeString(payload)
		return filters.SetSortBy{Value: filters.SortKey(value)}, err
	case "setsortorder", "sortorder":
		value, err := decodeString(payload)
		return filters.SetSortOrder{Value: filters.SortOrder(value)}, err
	case "setpricemin", "pricemin":
		value, err := decodeString(payload)
		return filters.SetPriceMin{Value: value}, err
	case "setpricemax", "pricemax":
		value, err := decodeString(payload)
		return filters.SetPriceMax{Value: value}, err
	case "toggledistance", "distance":
		value, err := decodeString(payload)
		return filters.ToggleDistance{Bucket: filters.DistanceBucket(value)}, err
	case "togglerating", "rating":
		value, err := decodeString(payload)
		if err != nil {
			return nil, err
		}
		bucket, ok := filters.ParseRatingBucket(value)
		if !ok {
			bucket = 0
		}
		return filters.ToggleRating{Bucket: bucket}, nil
	case "clearfilters", "clear":
		return filters.ClearFilters{}, nil
	default:
		return nil, fmt.Errorf("%w: filters %q", ErrUnknownAction, actionType)
	}
}

// decodeString accepts a JSON string, number or null, or an object with a "value" field.
func decodeString(payload json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if object, ok := raw.(map[string]any); ok {
		raw = object["value"]
	}
	switch typed := raw.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case float64:
		return normalization.AsString(typed), nil
	default:
		return "", fmt.Errorf("%w: expected a scalar value", ErrInvalidPayload)
	}
}

func unmarshal(payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func normalizeType(raw string) string {
	replacer := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
}
