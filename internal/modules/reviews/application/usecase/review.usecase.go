package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"storefrontWs/internal/modules/reviews/application/port"
	"storefrontWs/internal/modules/reviews/domain"
	"storefrontWs/internal/shared/validation"
)

// ReviewUseCase validates review requests and forwards them to the review service. Every
// successful write invalidates the cached listings, since restaurant ratings may have moved.
type ReviewUseCase struct {
	gateway     port.ReviewGateway
	invalidator port.ListingInvalidator
}

func NewReviewUseCase(gateway port.ReviewGateway, invalidator port.ListingInvalidator) *ReviewUseCase {
	return &ReviewUseCase{gateway: gateway, invalidator: invalidator}
}

func (uc *ReviewUseCase) Create(ctx context.Context, token string, input domain.CreateReviewInput) (domain.Review, error) {
	input.Trim()
	if err := validation.Struct(input); err != nil {
		return domain.Review{}, err
	}
	if token == "" {
		return domain.Review{}, port.ErrReviewUnauthorized
	}
	review, err := uc.gateway.CreateReview(ctx, token, input)
	if err != nil {
		slog.Warn("review create failed", slog.String("restaurantId", input.RestaurantID), slog.Any("error", err))
		return domain.Review{}, err
	}
	slog.Info("review created", slog.String("reviewId", review.ID), slog.String("restaurantId", input.RestaurantID))
	uc.invalidate(ctx, input.RestaurantID)
	return review, nil
}

// RestaurantReviews is public; no token is needed.
func (uc *ReviewUseCase) RestaurantReviews(ctx context.Context, restaurantID string, query domain.ReviewQuery) (domain.RestaurantReviews, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return domain.RestaurantReviews{}, fmt.Errorf("%w: restaurant id is required", validation.ErrValidation)
	}
	if err := validation.Struct(query); err != nil {
		return domain.RestaurantReviews{}, err
	}
	return uc.gateway.RestaurantReviews(ctx, restaurantID, query.Normalize())
}

func (uc *ReviewUseCase) MyReviews(ctx context.Context, token string, query domain.ReviewQuery) (domain.ReviewPage, error) {
	if err := validation.Struct(query); err != nil {
		return domain.ReviewPage{}, err
	}
	if token == "" {
		return domain.ReviewPage{}, port.ErrReviewUnauthorized
	}
	return uc.gateway.MyReviews(ctx, token, query.Normalize())
}

func (uc *ReviewUseCase) Update(ctx context.Context, token, reviewID string, input domain.UpdateReviewInput) (domain.Review, error) {
	input.Comment = strings.TrimSpace(input.Comment)
	if err := validation.Struct(input); err != nil {
		return domain.Review{}, err
	}
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return domain.Review{}, fmt.Errorf("%w: review id is required", validation.ErrValidation)
	}
	if token == "" {
		return domain.Review{}, port.ErrReviewUnauthorized
	}
	review, err := uc.gateway.UpdateReview(ctx, token, reviewID, input)
	if err != nil {
		slog.Warn("review update failed", slog.String("reviewId", reviewID), slog.Any("error", err))
		return domain.Review{}, err
	}
	restaurantID := ""
	if review.Restaurant != nil {
		restaurantID = review.Restaurant.ID
	}
	uc.invalidate(ctx, restaurantID)
	return review, nil
}

func (uc *ReviewUseCase) Delete(ctx context.Context, token, reviewID string) error {
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return fmt.Errorf("%w: review id is required", validation.ErrValidation)
	}
	if token == "" {
		return port.ErrReviewUnauthorized
	}
	if err := uc.gateway.DeleteReview(ctx, token, reviewID); err != nil {
		slog.Warn("review delete failed", slog.String("reviewId", reviewID), slog.Any("error", err))
		return err
	}
	slog.Info("review deleted", slog.String("reviewId", reviewID))
	uc.invalidate(ctx, "")
	return nil
}

func (uc *ReviewUseCase) invalidate(ctx context.Context, restaurantID string) {
	if uc.invalidator == nil {
		return
	}
	uc.invalidator.InvalidateListings(ctx, restaurantID)
}
