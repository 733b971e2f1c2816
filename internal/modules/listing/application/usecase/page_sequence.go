package usecase

import (
	"context"
	"iter"
	"log/slog"

	"storefrontWs/internal/modules/listing/application/port"
	"storefrontWs/internal/modules/listing/domain"
	"storefrontWs/internal/shared/logging"
)

// PageSequence produces up to MaxPages consecutive listing pages of PageSize.
type PageSequence struct {
	Fetcher  port.RestaurantFetcher
	MaxPages int
	PageSize int
}

// NewAggregateSequence is the 5 x 12 sequence shared by search and faceted listings.
func NewAggregateSequence(fetcher port.RestaurantFetcher) PageSequence {
	return PageSequence{Fetcher: fetcher, MaxPages: domain.AggregatePageLimit, PageSize: domain.AggregatePageSize}
}

// Pages yields pages in order. It stops after an empty page (not yielded), after a short
// page (yielded) or after an error (yielded with a nil page).
func (s PageSequence) Pages(ctx context.Context, location string) iter.Seq2[[]domain.Restaurant, error] {
	return func(yield func([]domain.Restaurant, error) bool) {
		for page := 1; page <= s.MaxPages; page++ {
			query := domain.PageQuery{Page: page, Limit: s.PageSize, Location: location}
			items, err := s.Fetcher.FetchPage(ctx, query)
			if err != nil {
				yield(nil, err)
				return
			}
			slog.Log(ctx, logging.LevelTrace, "listing sequence page", slog.Int("page", page), slog.Int("count", len(items)))
			if len(items) == 0 {
				return
			}
			if !yield(items, nil) {
				return
			}
			if len(items) < s.PageSize {
				return
			}
		}
	}
}

// SequenceResult is the concatenation of every page received before the sequence stopped.
type SequenceResult struct {
	Restaurants []domain.Restaurant
	Pages       int
	Err         error
}

// Collect drains Pages. A failure after some pages leaves a valid partial result with Err set.
func (s PageSequence) Collect(ctx context.Context, location string) SequenceResult {
	var result SequenceResult
	for items, err := range s.Pages(ctx, location) {
		if err != nil {
			result.Err = err
			break
		}
		result.Restaurants = append(result.Restaurants, items...)
		result.Pages++
	}
	if result.Err != nil {
		slog.Warn("listing sequence stopped early", slog.Int("pages", result.Pages), slog.Any("error", result.Err))
	}
	return result
}
