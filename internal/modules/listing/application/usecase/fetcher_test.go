package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefrontWs/internal/modules/listing/domain"
)

var errTestUpstream = errors.New("upstream down")

type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[int][]domain.Restaurant
	errs    map[int]error
	queries []domain.PageQuery
	gate    chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[int][]domain.Restaurant{}, errs: map[int]error{}}
}

func (f *fakeFetcher) FetchPage(ctx context.Context, query domain.PageQuery) ([]domain.Restaurant, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	gate := f.gate
	items := f.pages[query.Page]
	err := f.errs[query.Page]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.Restaurant, len(items))
	copy(out, items)
	return out, nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func restaurants(prefix string, count int) []domain.Restaurant {
	out := make([]domain.Restaurant, count)
	for i := range out {
		out[i] = domain.Restaurant{ID: fmt.Sprintf("%s%d", prefix, i), Name: fmt.Sprintf("Resto %s%d", prefix, i)}
	}
	return out
}

func restaurantIDs(list []domain.Restaurant) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}
