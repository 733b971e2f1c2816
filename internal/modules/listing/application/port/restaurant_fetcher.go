package port

import (
	"context"
	"errors"

	"storefrontWs/internal/modules/listing/domain"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrUpstreamForbidden   = errors.New("restaurant service rejected credentials")
	ErrUpstreamUnavailable = errors.New("restaurant service unavailable")
	ErrStaleGeneration     = errors.New("listing result superseded by a newer request")
)

// RestaurantFetcher returns one page of the restaurant listing.
type RestaurantFetcher interface {
	FetchPage(ctx context.Context, query domain.PageQuery) ([]domain.Restaurant, error)
}

// RestaurantCatalog serves single-restaurant reads.
type RestaurantCatalog interface {
	FetchRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
	FetchMenus(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
}
