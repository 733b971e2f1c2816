package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filters "storefrontWs/internal/modules/filters/domain"
	"storefrontWs/internal/modules/listing/application/port"
	"storefrontWs/internal/modules/listing/domain"
)

func rated(id string, star float64) domain.Restaurant {
	return domain.Restaurant{ID: id, Name: "Resto " + id, Star: &star}
}

func plainRequest() Request {
	return Request{Filters: filters.Defaults()}
}

func TestAggregator_PlainPaging(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = restaurants("a", 12)
	fetcher.pages[2] = append(restaurants("a", 2), restaurants("b", 3)...)
	agg := NewAggregator(domain.ContextHome, fetcher, nil)
	assert.Equal(t, domain.StateIdle, agg.View().State)

	view, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.ModePlain, view.Mode)
	assert.Equal(t, domain.StateLoaded, view.State)
	assert.Len(t, view.Restaurants, 12)
	assert.True(t, view.HasMore)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 12, fetcher.queries[0].Limit)

	view, err = agg.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Len(t, view.Restaurants, 15, "duplicates across pages are dropped")
	assert.False(t, view.HasMore)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 2, fetcher.queries[1].Page)

	_, err = agg.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls(), "no fetch after a short page")
}

func TestAggregator_CategoryContextPageSize(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = restaurants("a", 10)
	agg := NewAggregator(domain.ContextCategory, fetcher, nil)

	view, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)
	assert.True(t, view.HasMore)
	assert.Equal(t, 10, fetcher.queries[0].Limit)
}

func TestAggregator_RefreshReusesPagesUntilKeyChanges(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = []domain.Restaurant{rated("top", 4.8), rated("ok", 3.9)}
	agg := NewAggregator(domain.ContextHome, fetcher, nil)

	_, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)

	req := plainRequest()
	req.Filters = filters.Reduce(req.Filters, filters.SetSelectedCategory{Value: domain.HomeCategoryBestseller})
	view, err := agg.Refresh(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls(), "category change starts over from page 1")
	assert.Equal(t, []string{"top"}, restaurantIDs(view.Restaurants))

	view, err = agg.Refresh(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls())
	assert.Equal(t, []string{"top"}, restaurantIDs(view.Restaurants))
	assert.Equal(t, uint64(3), view.Generation)

	agg.MarkStale()
	_, err = agg.Refresh(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls())
}

func TestAggregator_SearchFiltersFetchedPages(t *testing.T) {
	list := newFakeFetcher()
	search := newFakeFetcher()
	search.pages[1] = []domain.Restaurant{{ID: "1", Name: "Sate Padang"}, {ID: "2", Name: "Bakso Malang"}}
	agg := NewAggregator(domain.ContextHome, list, search)

	req := plainRequest()
	req.Filters = filters.Reduce(req.Filters, filters.SetSearchQuery{Value: "sate"})
	view, err := agg.Refresh(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeSearch, view.Mode)
	assert.Equal(t, []string{"1"}, restaurantIDs(view.Restaurants))
	assert.False(t, view.HasMore)
	assert.Equal(t, 0, list.calls())
}

func TestAggregator_SearchFallsBackToAccumulatedList(t *testing.T) {
	list := newFakeFetcher()
	list.pages[1] = []domain.Restaurant{{ID: "1", Name: "Sate Padang"}, {ID: "2", Name: "Bakso Malang"}}
	search := newFakeFetcher()
	search.errs[1] = errTestUpstream
	agg := NewAggregator(domain.ContextHome, list, search)

	_, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)

	req := plainRequest()
	req.Filters = filters.Reduce(req.Filters, filters.SetSearchQuery{Value: "bakso"})
	view, err := agg.Refresh(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.StateLoaded, view.State)
	assert.Equal(t, []string{"2"}, restaurantIDs(view.Restaurants))

	view, err = agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)
	assert.Len(t, view.Restaurants, 2)
	assert.Equal(t, 1, list.calls(), "plain pages survive a detour through search")
}

func TestAggregator_FacetedAppliesFiltersAcrossPages(t *testing.T) {
	fetcher := newFakeFetcher()
	page1 := restaurants("x", 11)
	page1 = append(page1, rated("a", 4.2))
	fetcher.pages[1] = page1
	fetcher.pages[2] = []domain.Restaurant{rated("b", 4.9), rated("c", 3.1)}
	agg := NewAggregator(domain.ContextCategory, fetcher, nil)

	req := plainRequest()
	req.Filters = filters.Reduce(req.Filters, filters.ToggleRating{Bucket: 4})
	view, err := agg.Refresh(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeFaceted, view.Mode)
	assert.Equal(t, []string{"a", "b"}, restaurantIDs(view.Restaurants))
	assert.False(t, view.HasMore)
	assert.Equal(t, 2, fetcher.calls())
	assert.Equal(t, 12, fetcher.queries[0].Limit)
}

func TestAggregator_FacetedFailureBeforeFirstPage(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.errs[1] = errTestUpstream
	agg := NewAggregator(domain.ContextHome, fetcher, nil)

	req := plainRequest()
	req.Filters = filters.Reduce(req.Filters, filters.SetPriceMax{Value: "50000"})
	view, err := agg.Refresh(context.Background(), req)

	assert.ErrorIs(t, err, port.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, errTestUpstream)
	assert.Equal(t, domain.StateError, view.State)
	assert.True(t, view.IsError)
	assert.Empty(t, view.Restaurants)
}

func TestAggregator_PlainErrorThenRecovery(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = restaurants("a", 12)
	fetcher.errs[2] = errTestUpstream
	agg := NewAggregator(domain.ContextHome, fetcher, nil)

	_, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)

	view, err := agg.LoadMore(context.Background())
	assert.ErrorIs(t, err, port.ErrUpstreamUnavailable)
	assert.Equal(t, domain.StateError, view.State)
	assert.Len(t, view.Restaurants, 12, "accumulated pages stay visible")

	delete(fetcher.errs, 2)
	fetcher.pages[2] = restaurants("b", 3)
	view, err = agg.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StateLoaded, view.State)
	assert.Len(t, view.Restaurants, 15)
}

func TestAggregator_RefreshAfterFailedLoadMoreKeepsPages(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = restaurants("a", 12)
	fetcher.pages[2] = restaurants("b", 12)
	fetcher.errs[3] = errTestUpstream
	agg := NewAggregator(domain.ContextHome, fetcher, nil)

	_, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)
	_, err = agg.LoadMore(context.Background())
	require.NoError(t, err)
	view, err := agg.LoadMore(context.Background())
	require.ErrorIs(t, err, port.ErrUpstreamUnavailable)
	assert.Equal(t, domain.StateError, view.State)
	assert.Len(t, view.Restaurants, 24)

	view, err = agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls(), "same query is served from held pages")
	assert.Equal(t, domain.StateLoaded, view.State)
	assert.Len(t, view.Restaurants, 24)
	assert.Equal(t, 2, view.Page)
	assert.True(t, view.HasMore)

	delete(fetcher.errs, 3)
	fetcher.pages[3] = restaurants("c", 4)
	view, err = agg.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.queries[3].Page)
	assert.Len(t, view.Restaurants, 28)
}

func TestAggregator_DiscardsStaleGeneration(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = restaurants("old", 2)
	fetcher.gate = make(chan struct{})
	agg := NewAggregator(domain.ContextHome, fetcher, nil)

	type outcome struct {
		view View
		err  error
	}
	first := make(chan outcome, 1)
	go func() {
		view, err := agg.Refresh(context.Background(), plainRequest())
		first <- outcome{view, err}
	}()
	require.Eventually(t, func() bool { return fetcher.calls() == 1 }, time.Second, time.Millisecond)

	fetcher.mu.Lock()
	gate := fetcher.gate
	fetcher.gate = nil
	fetcher.pages[1] = restaurants("new", 3)
	fetcher.mu.Unlock()

	view, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"new0", "new1", "new2"}, restaurantIDs(view.Restaurants))

	close(gate)
	stale := <-first
	assert.ErrorIs(t, stale.err, port.ErrStaleGeneration)
	assert.Equal(t, uint64(2), stale.view.Generation)

	current := agg.View()
	assert.Equal(t, []string{"new0", "new1", "new2"}, restaurantIDs(current.Restaurants))
	assert.Equal(t, domain.StateLoaded, current.State)
}

func TestAggregator_NotifiesListeners(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.pages[1] = restaurants("a", 1)
	agg := NewAggregator(domain.ContextHome, fetcher, nil)

	var views []View
	agg.OnChange(func(v View) { views = append(views, v) })
	_, err := agg.Refresh(context.Background(), plainRequest())
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, domain.StateLoaded, views[0].State)
}
