package domain

import "strings"

const (
	SystemEntity     = "system"
	CartEntity       = "cart"
	FiltersEntity    = "filters"
	ListingEntity    = "listing"
	RestaurantEntity = "restaurants"
	OrderEntity      = "orders"

	ActionConnected   = "connected"
	ActionPong        = "pong"
	ActionError       = "error"
	ActionSnapshot    = "snapshot"
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionInvalidated = "invalidated"

	TopicSystemPong         = SystemEntity + "." + ActionPong
	TopicSystemError        = SystemEntity + "." + ActionError
	TopicCartUpdated        = CartEntity + "." + ActionUpdated
	TopicFiltersUpdated     = FiltersEntity + "." + ActionUpdated
	TopicListingUpdated     = ListingEntity + "." + ActionUpdated
	TopicListingInvalidated = ListingEntity + "." + ActionInvalidated
	TopicOrderCreated       = OrderEntity + "." + ActionCreated
)

// SessionTopics are the topics every storefront socket is subscribed to on connect.
func SessionTopics() []string {
	return []string{
		TopicCartUpdated,
		TopicFiltersUpdated,
		TopicListingUpdated,
		TopicListingInvalidated,
		TopicOrderCreated,
		TopicSystemError,
	}
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	return buildEntityTopic(entity, action)
}

func buildEntityTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}
