package usecase

import (
	"context"
	"sync"
	"time"

	cartusecase "storefrontWs/internal/modules/cart/application/usecase"
	filterusecase "storefrontWs/internal/modules/filters/application/usecase"
	listingusecase "storefrontWs/internal/modules/listing/application/usecase"
	listing "storefrontWs/internal/modules/listing/domain"
)

// Session is the application state of one storefront visitor: a persisted cart, in-memory
// filters and one listing aggregator per listing context.
type Session struct {
	ID      string
	Cart    *cartusecase.CartStore
	Filters *filterusecase.FilterStore

	newAggregator func(listing.Context) *listingusecase.Aggregator
	loadOnce      sync.Once

	mu       sync.Mutex
	listings map[listing.Context]*listingusecase.Aggregator
	location *listing.GeoPoint
	lastSeen time.Time
}

// ensureLoaded restores the cart on first access. Later accesses apply the daily reset to a
// session that stayed in memory across midnight.
func (s *Session) ensureLoaded(ctx context.Context) {
	loaded := false
	s.loadOnce.Do(func() {
		s.Cart.Load(context.WithoutCancel(ctx))
		loaded = true
	})
	if !loaded {
		s.Cart.ResetIfNewDay(context.WithoutCancel(ctx))
	}
}

// Listing returns the aggregator of listingContext, creating it on first use.
func (s *Session) Listing(listingContext listing.Context) *listingusecase.Aggregator {
	s.mu.Lock()
	defer s.mu.Unlock()
	aggregator, ok := s.listings[listingContext]
	if !ok {
		aggregator = s.newAggregator(listingContext)
		s.listings[listingContext] = aggregator
	}
	return aggregator
}

// Listings returns the aggregators created so far.
func (s *Session) Listings() map[listing.Context]*listingusecase.Aggregator {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[listing.Context]*listingusecase.Aggregator, len(s.listings))
	for key, aggregator := range s.listings {
		out[key] = aggregator
	}
	return out
}

// SetLocation records the visitor's position. nil keeps the last known one.
func (s *Session) SetLocation(point *listing.GeoPoint) {
	if point == nil {
		return
	}
	copied := *point
	s.mu.Lock()
	s.location = &copied
	s.mu.Unlock()
}

func (s *Session) Location() *listing.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return nil
	}
	copied := *s.location
	return &copied
}

// RefreshListing renders listingContext with the current filters and location.
func (s *Session) RefreshListing(ctx context.Context, listingContext listing.Context) (listingusecase.View, error) {
	return s.Listing(listingContext).Refresh(ctx, listingusecase.Request{
		Filters:      s.Filters.State(),
		UserLocation: s.Location(),
	})
}

func (s *Session) touch(at time.Time) {
	s.mu.Lock()
	s.lastSeen = at
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
