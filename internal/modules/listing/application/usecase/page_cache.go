package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefrontWs/internal/modules/listing/application/port"
	"storefrontWs/internal/modules/listing/domain"
)

const (
	CacheScopeListing = "listing"
	CacheScopeSearch  = "search"
	cacheDelimiter    = ":"
)

// PageCache memoizes listing pages per scope and canonical query, each scope with its own TTL.
type PageCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]*pageCacheEntry
	now     func() time.Time
}

type pageCacheEntry struct {
	query     domain.PageQuery
	items     []domain.Restaurant
	fetchedAt time.Time
}

func NewPageCache(now func() time.Time) *PageCache {
	if now == nil {
		now = time.Now
	}
	return &PageCache{entries: make(map[string]map[string]*pageCacheEntry), now: now}
}

func (c *PageCache) set(scope string, query domain.PageQuery, items []domain.Restaurant) {
	scope = normalizeScope(scope)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[scope] == nil {
		c.entries[scope] = make(map[string]*pageCacheEntry)
	}
	c.entries[scope][query.CanonicalKey()] = &pageCacheEntry{
		query:     query.Normalize(),
		items:     cloneRestaurants(items),
		fetchedAt: c.now(),
	}
}

func (c *PageCache) get(scope string, query domain.PageQuery, ttl time.Duration) ([]domain.Restaurant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[normalizeScope(scope)][query.CanonicalKey()]
	if !ok {
		return nil, false
	}
	if ttl > 0 && c.now().Sub(entry.fetchedAt) > ttl {
		return nil, false
	}
	return cloneRestaurants(entry.items), true
}

// Invalidate drops every cached page of every scope.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]*pageCacheEntry)
}

// Len counts cached pages across scopes.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, scope := range c.entries {
		total += len(scope)
	}
	return total
}

// Fetcher wraps next so that pages are served from scope while younger than ttl.
func (c *PageCache) Fetcher(scope string, ttl time.Duration, next port.RestaurantFetcher) port.RestaurantFetcher {
	return &cachedFetcher{cache: c, scope: scope, ttl: ttl, next: next}
}

type cachedFetcher struct {
	cache *PageCache
	scope string
	ttl   time.Duration
	next  port.RestaurantFetcher
}

func (f *cachedFetcher) FetchPage(ctx context.Context, query domain.PageQuery) ([]domain.Restaurant, error) {
	if items, ok := f.cache.get(f.scope, query, f.ttl); ok {
		return items, nil
	}
	items, err := f.next.FetchPage(ctx, query)
	if err != nil {
		return nil, err
	}
	f.cache.set(f.scope, query, items)
	return items, nil
}

func normalizeScope(scope string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(scope, cacheDelimiter)))
}

func cloneRestaurants(items []domain.Restaurant) []domain.Restaurant {
	if items == nil {
		return nil
	}
	out := make([]domain.Restaurant, len(items))
	copy(out, items)
	return out
}
