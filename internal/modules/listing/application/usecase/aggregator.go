package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	filters "storefrontWs/internal/modules/filters/domain"
	"storefrontWs/internal/modules/listing/application/port"
	"storefrontWs/internal/modules/listing/domain"
	"storefrontWs/internal/shared/changefeed"
)

// Request is the input of one listing render.
type Request struct {
	Filters      filters.State
	UserLocation *domain.GeoPoint
}

// View is what a listing currently shows.
type View struct {
	Context     domain.Context      `json:"context"`
	Mode        domain.Mode         `json:"mode"`
	State       domain.LoadState    `json:"state"`
	Restaurants []domain.Restaurant `json:"restaurants"`
	HasMore     bool                `json:"hasMore"`
	Page        int                 `json:"page"`
	Generation  uint64              `json:"generation"`
	IsLoading   bool                `json:"isLoading"`
	IsError     bool                `json:"isError"`
}

type queryKey struct {
	category string
	mode     domain.Mode
	location string
}

// Aggregator owns the listing of one session in one context.
type Aggregator struct {
	listingContext domain.Context
	listFetcher    port.RestaurantFetcher
	searchFetcher  port.RestaurantFetcher

	mu          sync.Mutex
	generation  uint64
	key         queryKey
	state       domain.LoadState
	accumulator *domain.Accumulator
	displayed   []domain.Restaurant
	request     Request
	stale       bool
	revision    uint64
	changes     changefeed.Feed[View]
}

// NewAggregator builds an idle aggregator. listFetcher serves plain and faceted pages,
// searchFetcher serves search pages; they differ only in cache lifetime.
func NewAggregator(listingContext domain.Context, listFetcher, searchFetcher port.RestaurantFetcher) *Aggregator {
	if searchFetcher == nil {
		searchFetcher = listFetcher
	}
	return &Aggregator{
		listingContext: listingContext,
		listFetcher:    listFetcher,
		searchFetcher:  searchFetcher,
		state:          domain.StateIdle,
		accumulator:    domain.NewAccumulator(),
		displayed:      []domain.Restaurant{},
	}
}

// OnChange registers fn to receive every view produced by a completed fetch.
func (a *Aggregator) OnChange(fn func(View)) {
	a.changes.Subscribe(fn)
}

// View returns the current view without fetching.
func (a *Aggregator) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked()
}

// MarkStale makes the next Refresh start over from the first page.
func (a *Aggregator) MarkStale() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stale = true
}

// Refresh re-renders the listing for req. Every call opens a new generation; a result
// that arrives after a newer generation started is dropped and ErrStaleGeneration returned.
func (a *Aggregator) Refresh(ctx context.Context, req Request) (View, error) {
	mode := domain.SelectMode(req.Filters)
	key := queryKey{
		category: req.Filters.SelectedCategory,
		mode:     mode,
		location: domain.LocationParam(req.UserLocation),
	}

	a.mu.Lock()
	a.generation++
	generation := a.generation
	a.request = Request{Filters: req.Filters.Clone(), UserLocation: req.UserLocation}
	// The accumulator holds plain pages only; search falls back to it, so a mode change alone keeps it.
	if key.category != a.key.category || key.location != a.key.location || a.stale {
		a.accumulator.Reset()
		a.stale = false
	}
	a.key = key
	if mode == domain.ModePlain && a.accumulator.Page() > 0 {
		// Same query, pages already held: only the display changes. A failed load-more
		// lands here too and keeps its pages.
		a.displayed = a.plainDisplayLocked()
		a.setStateLocked(domain.StateLoaded)
		view, revision := a.publishableLocked()
		a.mu.Unlock()
		a.changes.Publish(revision, view)
		return view, nil
	}
	a.setStateLocked(domain.StateInitialLoading)
	a.mu.Unlock()

	switch mode {
	case domain.ModeSearch:
		return a.refreshSearch(ctx, generation, key.location)
	case domain.ModeFaceted:
		return a.refreshFaceted(ctx, generation, key.location)
	default:
		return a.fetchPlainPage(ctx, generation, 1)
	}
}

func (a *Aggregator) refreshSearch(ctx context.Context, generation uint64, location string) (View, error) {
	result := NewAggregateSequence(a.searchFetcher).Collect(ctx, location)

	return a.commit(generation, func() error {
		query := a.request.Filters.SearchQuery
		source := result.Restaurants
		if len(source) == 0 {
			source = a.accumulator.Items()
		}
		a.displayed = domain.FilterSearch(source, query)
		a.setStateLocked(domain.StateLoaded)
		return nil
	})
}

func (a *Aggregator) refreshFaceted(ctx context.Context, generation uint64, location string) (View, error) {
	result := NewAggregateSequence(a.listFetcher).Collect(ctx, location)

	return a.commit(generation, func() error {
		if result.Err != nil && result.Pages == 0 {
			a.displayed = []domain.Restaurant{}
			a.setStateLocked(domain.StateError)
			return result.Err
		}
		a.displayed = domain.ApplyFacets(result.Restaurants, a.request.Filters, a.request.UserLocation)
		a.setStateLocked(domain.StateLoaded)
		return nil
	})
}

// LoadMore appends the next plain page. It is a no-op outside plain mode, while a fetch is
// in flight, or once the last page was short.
func (a *Aggregator) LoadMore(ctx context.Context) (View, error) {
	a.mu.Lock()
	if a.key.mode != domain.ModePlain || a.state.IsLoading() || a.state == domain.StateIdle ||
		a.accumulator.Page() == 0 || !a.accumulator.HasMore() {
		view := a.viewLocked()
		a.mu.Unlock()
		return view, nil
	}
	generation := a.generation
	page := a.accumulator.NextPage()
	a.setStateLocked(domain.StateLoadingMore)
	a.mu.Unlock()

	return a.fetchPlainPage(ctx, generation, page)
}

func (a *Aggregator) fetchPlainPage(ctx context.Context, generation uint64, page int) (View, error) {
	limit := a.listingContext.PlainPageSize()
	query := domain.PageQuery{Page: page, Limit: limit, Location: a.currentLocation()}
	items, err := a.listFetcher.FetchPage(ctx, query)

	return a.commit(generation, func() error {
		if err != nil {
			a.setStateLocked(domain.StateError)
			return err
		}
		a.accumulator.Append(page, items, limit)
		a.displayed = a.plainDisplayLocked()
		a.setStateLocked(domain.StateLoaded)
		return nil
	})
}

// commit applies a fetch result under the lock unless generation was superseded.
func (a *Aggregator) commit(generation uint64, apply func() error) (View, error) {
	a.mu.Lock()
	if generation != a.generation {
		view := a.viewLocked()
		a.mu.Unlock()
		slog.Debug("listing result discarded",
			slog.String("context", string(a.listingContext)),
			slog.Uint64("generation", generation),
			slog.Uint64("current", view.Generation),
		)
		return view, port.ErrStaleGeneration
	}
	err := apply()
	view, revision := a.publishableLocked()
	a.mu.Unlock()

	if err != nil {
		slog.Warn("listing fetch failed",
			slog.String("context", string(a.listingContext)),
			slog.String("mode", string(view.Mode)),
			slog.Any("error", err),
		)
		if !errors.Is(err, port.ErrUpstreamUnavailable) && !errors.Is(err, context.Canceled) &&
			!errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, port.ErrUpstreamForbidden) {
			err = errors.Join(port.ErrUpstreamUnavailable, err)
		}
	}
	a.changes.Publish(revision, view)
	return view, err
}

func (a *Aggregator) currentLocation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.key.location
}

func (a *Aggregator) plainDisplayLocked() []domain.Restaurant {
	items := a.accumulator.Items()
	category := a.request.Filters.SelectedCategory
	if a.listingContext != domain.ContextHome || category == "" {
		return items
	}
	out := make([]domain.Restaurant, 0, len(items))
	for _, r := range items {
		if r.MatchesHomeCategory(category, a.request.UserLocation) {
			out = append(out, r)
		}
	}
	return out
}

func (a *Aggregator) setStateLocked(next domain.LoadState) {
	if a.state == next {
		return
	}
	if !a.state.CanTransition(next) {
		slog.Warn("listing state transition outside lifecycle",
			slog.String("from", string(a.state)),
			slog.String("to", string(next)),
		)
	}
	a.state = next
}

func (a *Aggregator) viewLocked() View {
	hasMore := false
	if a.key.mode == domain.ModePlain && a.accumulator.Page() > 0 {
		hasMore = a.accumulator.HasMore()
	}
	restaurants := make([]domain.Restaurant, len(a.displayed))
	copy(restaurants, a.displayed)
	return View{
		Context:     a.listingContext,
		Mode:        a.key.mode,
		State:       a.state,
		Restaurants: restaurants,
		HasMore:     hasMore,
		Page:        a.accumulator.Page(),
		Generation:  a.generation,
		IsLoading:   a.state.IsLoading(),
		IsError:     a.state == domain.StateError,
	}
}

// publishableLocked tags the current view with a revision so overlapping fetches reach
// listeners in order.
func (a *Aggregator) publishableLocked() (View, uint64) {
	a.revision++
	return a.viewLocked(), a.revision
}
