package domain

import (
	"strings"
	"time"
)

type ReviewAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReviewedRestaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Review is one buyer review as reported by the review service.
type Review struct {
	ID            string              `json:"id"`
	Star          int                 `json:"star"`
	Comment       string              `json:"comment"`
	TransactionID string              `json:"transactionId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt,omitzero"`
	User          ReviewAuthor        `json:"user"`
	Restaurant    *ReviewedRestaurant `json:"restaurant,omitempty"`
}

// Statistics summarizes the reviews of one restaurant. RatingDistribution is keyed "1".."5".
type Statistics struct {
	TotalReviews       int            `json:"totalReviews"`
	AverageRating      float64        `json:"averageRating"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type RatedRestaurant struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Star float64 `json:"star"`
}

// RestaurantReviews is one page of a restaurant's reviews with its rating statistics.
type RestaurantReviews struct {
	Restaurant RatedRestaurant `json:"restaurant"`
	Reviews    []Review        `json:"reviews"`
	Statistics Statistics      `json:"statistics"`
	Pagination Pagination      `json:"pagination"`
}

// ReviewPage is one page of the caller's own reviews.
type ReviewPage struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}

// CreateReviewInput reviews a restaurant of a completed transaction.
type CreateReviewInput struct {
	TransactionID string `json:"transactionId" validate:"required,max=100"`
	RestaurantID  string `json:"restaurantId" validate:"required,numeric"`
	Star          int    `json:"star" validate:"required,min=1,max=5"`
	Comment       string `json:"comment" validate:"max=1000"`
}

type UpdateReviewInput struct {
	Star    int    `json:"star" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ReviewQuery pages a review listing. Rating narrows a restaurant listing to one star value.
type ReviewQuery struct {
	Page   int `query:"page" validate:"gte=0"`
	Limit  int `query:"limit" validate:"gte=0,lte=50"`
	Rating int `query:"rating" validate:"omitempty,min=1,max=5"`
}

func (q ReviewQuery) Normalize() ReviewQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if normalized.Limit <= 0 {
		normalized.Limit = 10
	}
	return normalized
}

// Trim strips the free-text fields in place.
func (in *CreateReviewInput) Trim() {
	in.TransactionID = strings.TrimSpace(in.TransactionID)
	in.RestaurantID = strings.TrimSpace(in.RestaurantID)
	in.Comment = strings.TrimSpace(in.Comment)
}
