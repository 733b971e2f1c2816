package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	cartusecase "storefrontWs/internal/modules/cart/application/usecase"
	cart "storefrontWs/internal/modules/cart/domain"
	cartinfra "storefrontWs/internal/modules/cart/infrastructure"
	filterusecase "storefrontWs/internal/modules/filters/application/usecase"
	filters "storefrontWs/internal/modules/filters/domain"
	listingport "storefrontWs/internal/modules/listing/application/port"
	listingusecase "storefrontWs/internal/modules/listing/application/usecase"
	listing "storefrontWs/internal/modules/listing/domain"
	realtimeport "storefrontWs/internal/modules/realtime/application/port"
	realtime "storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/platform/kvstore"
)

// ErrMissingSession is returned when a request carries no usable session id.
var ErrMissingSession = errors.New("missing session id")

// Notifier pushes state changes to one session's sockets.
type Notifier interface {
	ToSession(ctx context.Context, sessionID, entity, action string, data any, extras realtime.Metadata)
}

// Dependencies wires a Registry.
type Dependencies struct {
	Store         kvstore.Store
	ListFetcher   listingport.RestaurantFetcher
	SearchFetcher listingport.RestaurantFetcher
	PageCache     *listingusecase.PageCache
	Notifier      Notifier
	Location      *time.Location
	Now           func() time.Time
	// RefreshTimeout bounds the background listing refresh triggered by a filter change.
	RefreshTimeout time.Duration
}

// Registry creates storefront sessions lazily and keeps them in memory.
type Registry struct {
	deps Dependencies

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(deps Dependencies) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Store == nil {
		deps.Store = kvstore.NewMemoryStore()
	}
	if deps.RefreshTimeout <= 0 {
		deps.RefreshTimeout = 15 * time.Second
	}
	return &Registry{deps: deps, sessions: make(map[string]*Session)}
}

// Get returns the session with id, restoring its cart on first access.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingSession
	}

	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok {
		session = r.newSession(id)
		r.sessions[id] = session
		slog.Debug("storefront session created", slog.String("sessionId", id))
	}
	r.mu.Unlock()

	session.ensureLoaded(ctx)
	session.touch(r.deps.Now())
	return session, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle. Carts survive in the store.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := r.deps.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, session := range r.sessions {
		if session.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("storefront sessions swept", slog.Int("removed", removed), slog.Int("remaining", len(r.sessions)))
	}
	return removed
}

// InvalidateListings drops cached pages and makes every listing restart from page one.
func (r *Registry) InvalidateListings(_ context.Context, restaurantID string) {
	if r.deps.PageCache != nil {
		r.deps.PageCache.Invalidate()
	}
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mu.Unlock()

	for _, session := range sessions {
		for _, aggregator := range session.Listings() {
			aggregator.MarkStale()
		}
	}
	slog.Info("storefront listings invalidated", slog.String("restaurantId", restaurantID), slog.Int("sessions", len(sessions)))
}

func (r *Registry) newSession(id string) *Session {
	store := kvstore.Scoped(r.deps.Store, "session:"+id)
	session := &Session{
		ID:       id,
		Cart:     cartusecase.NewCartStore(id, cartinfra.NewKVSnapshotRepository(store), r.deps.Now, r.deps.Location),
		Filters:  filterusecase.NewFilterStore(id),
		listings: make(map[listing.Context]*listingusecase.Aggregator),
	}
	session.newAggregator = func(listingContext listing.Context) *listingusecase.Aggregator {
		aggregator := listingusecase.NewAggregator(listingContext, r.deps.ListFetcher, r.deps.SearchFetcher)
		aggregator.OnChange(func(view listingusecase.View) {
			r.notify(id, realtime.ListingEntity, realtime.ActionUpdated, view, realtime.Metadata{
				realtime.MetaContext: string(listingContext),
			})
		})
		return aggregator
	}

	session.Cart.OnChange(func(snapshot cart.Snapshot) {
		r.notify(id, realtime.CartEntity, realtime.ActionUpdated, snapshot, nil)
	})
	session.Filters.OnChange(func(state filters.State) {
		r.notify(id, realtime.FiltersEntity, realtime.ActionUpdated, state, nil)
		r.refreshActiveListings(session)
	})
	return session
}

// refreshActiveListings re-renders every listing that was rendered before. Results reach the
// sockets through the aggregator listener; a superseded refresh is dropped by the aggregator.
func (r *Registry) refreshActiveListings(session *Session) {
	for listingContext, aggregator := range session.Listings() {
		if aggregator.View().State == listing.StateIdle {
			continue
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), r.deps.RefreshTimeout)
			defer cancel()
			if _, err := session.RefreshListing(ctx, listingContext); err != nil && !errors.Is(err, listingport.ErrStaleGeneration) {
				slog.Warn("storefront listing refresh failed",
					slog.String("sessionId", session.ID),
					slog.String("context", string(listingContext)),
					slog.Any("error", err),
				)
			}
		}()
	}
}

func (r *Registry) notify(sessionID, entity, action string, data any, extras realtime.Metadata) {
	if r.deps.Notifier == nil {
		return
	}
	r.deps.Notifier.ToSession(context.Background(), sessionID, entity, action, data, extras)
}

var _ realtimeport.ListingInvalidator = (*Registry)(nil)
