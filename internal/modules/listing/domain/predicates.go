package domain

import (
	filters "storefrontWs/internal/modules/filters/domain"
)

// MatchesDistance reports whether r lies within any of buckets. Restaurants without a
// resolvable distance never match.
func (r Restaurant) MatchesDistance(buckets []filters.DistanceBucket, user *GeoPoint) bool {
	distance, ok := r.ResolveDistanceKm(user)
	if !ok {
		return false
	}
	for _, bucket := range buckets {
		if limit, known := bucket.MaxKm(); known && distance <= limit {
			return true
		}
	}
	return false
}

// MatchesRating reports whether r's rating falls in any bucket. A missing rating never matches.
func (r Restaurant) MatchesRating(buckets []filters.RatingBucket) bool {
	if r.Star == nil {
		return false
	}
	for _, bucket := range buckets {
		if bucket.Contains(*r.Star) {
			return true
		}
	}
	return false
}

// ApplyFacets filters list by distance, price-min, price-max and rating, in that order.
// The distance facet is skipped entirely when user is nil.
func ApplyFacets(list []Restaurant, state filters.State, user *GeoPoint) []Restaurant {
	minPrice, hasMin, maxPrice, hasMax := state.PriceBounds()

	out := make([]Restaurant, 0, len(list))
	for _, r := range list {
		if len(state.Distance) > 0 && user != nil && !r.MatchesDistance(state.Distance, user) {
			continue
		}
		if hasMin && (r.PriceRange.Min == nil || *r.PriceRange.Min < minPrice) {
			continue
		}
		if hasMax && (r.PriceRange.Max == nil || *r.PriceRange.Max > maxPrice) {
			continue
		}
		if len(state.Rating) > 0 && !r.MatchesRating(state.Rating) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterSearch keeps the restaurants whose name or place contains query.
func FilterSearch(list []Restaurant, query string) []Restaurant {
	out := make([]Restaurant, 0, len(list))
	for _, r := range list {
		if r.MatchesSearch(query) {
			out = append(out, r)
		}
	}
	return out
}

// Home page quick categories.
const (
	HomeCategoryNearby     = "nearby"
	HomeCategoryDiscount   = "discount"
	HomeCategoryBestseller = "bestseller"
)

// MatchesHomeCategory applies the home page chip filters. Unknown or empty categories match everything.
func (r Restaurant) MatchesHomeCategory(category string, user *GeoPoint) bool {
	switch category {
	case HomeCategoryNearby:
		if distance, ok := r.ResolveDistanceKm(user); ok {
			return distance <= 5
		}
		return true
	case HomeCategoryDiscount:
		return r.PriceRange.Min != nil && r.PriceRange.Max != nil && *r.PriceRange.Min <= 20 && *r.PriceRange.Max <= 50
	case HomeCategoryBestseller:
		return r.Star != nil && *r.Star >= 4.5
	default:
		return true
	}
}
