package port

import (
	"context"
	"errors"

	"storefrontWs/internal/modules/reviews/domain"
)

var (
	ErrReviewUnauthorized       = errors.New("review service requires a signed-in user")
	ErrReviewNotFound           = errors.New("review not found")
	ErrReviewRejected           = errors.New("review rejected by review service")
	ErrReviewServiceUnavailable = errors.New("review service unavailable")
)

// ReviewGateway talks to the upstream review service.
type ReviewGateway interface {
	CreateReview(ctx context.Context, token string, input domain.CreateReviewInput) (domain.Review, error)
	RestaurantReviews(ctx context.Context, restaurantID string, query domain.ReviewQuery) (domain.RestaurantReviews, error)
	MyReviews(ctx context.Context, token string, query domain.ReviewQuery) (domain.ReviewPage, error)
	UpdateReview(ctx context.Context, token, reviewID string, input domain.UpdateReviewInput) (domain.Review, error)
	DeleteReview(ctx context.Context, token, reviewID string) error
}

// ListingInvalidator drops listings whose ratings a review change made stale.
type ListingInvalidator interface {
	InvalidateListings(ctx context.Context, restaurantID string)
}
