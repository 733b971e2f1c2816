package domain

import (
	"strconv"
	"time"

	"storefrontWs/internal/shared/normalization"
)

// NormalizeReview reads one review record; records without an id are rejected.
func NormalizeReview(raw map[string]any) (Review, bool) {
	if raw == nil {
		return Review{}, false
	}
	review := Review{
		ID:            normalization.AsString(raw["id"]),
		Star:          normalization.AsInt(raw["star"]),
		Comment:       normalization.AsString(raw["comment"]),
		TransactionID: normalization.AsString(raw["transactionId"]),
		CreatedAt:     parseTime(raw["createdAt"]),
		UpdatedAt:     parseTime(raw["updatedAt"]),
	}
	if review.ID == "" {
		return Review{}, false
	}
	if user, ok := raw["user"].(map[string]any); ok {
		review.User = ReviewAuthor{ID: normalization.AsString(user["id"]), Name: normalization.AsString(user["name"])}
	}
	if restaurant, ok := raw["restaurant"].(map[string]any); ok {
		review.Restaurant = &ReviewedRestaurant{
			ID:   normalization.AsString(restaurant["id"]),
			Name: normalization.AsString(restaurant["name"]),
			Logo: normalization.AsString(restaurant["logo"]),
		}
	}
	return review, true
}

// NormalizeReviews keeps the well-formed entries of a review array.
func NormalizeReviews(value any) []Review {
	out := []Review{}
	for _, entry := range normalization.AsInterfaceSlice(value) {
		raw, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if review, ok := NormalizeReview(raw); ok {
			out = append(out, review)
		}
	}
	return out
}

// NormalizeStatistics fills every star bucket so clients can render a full histogram.
func NormalizeStatistics(raw map[string]any) Statistics {
	stats := Statistics{RatingDistribution: make(map[string]int, 5)}
	for star := 1; star <= 5; star++ {
		stats.RatingDistribution[strconv.Itoa(star)] = 0
	}
	if raw == nil {
		return stats
	}
	stats.TotalReviews = normalization.AsInt(raw["totalReviews"])
	stats.AverageRating = normalization.AsFloat64(raw["averageRating"])
	if distribution, ok := raw["ratingDistribution"].(map[string]any); ok {
		for key := range stats.RatingDistribution {
			stats.RatingDistribution[key] = normalization.AsInt(distribution[key])
		}
	}
	return stats
}

// NormalizePagination falls back to query for missing page and limit.
func NormalizePagination(raw map[string]any, query ReviewQuery) Pagination {
	page := Pagination{Page: query.Page, Limit: query.Limit}
	if raw == nil {
		return page
	}
	if v := normalization.AsInt(raw["page"]); v > 0 {
		page.Page = v
	}
	if v := normalization.AsInt(raw["limit"]); v > 0 {
		page.Limit = v
	}
	page.Total = normalization.AsInt(raw["total"])
	page.TotalPages = normalization.AsInt(raw["totalPages"])
	return page
}

func parseTime(value any) time.Time {
	text := normalization.AsString(value)
	if text == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
