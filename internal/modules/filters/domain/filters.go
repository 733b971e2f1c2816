package domain

import (
	"slices"
	"strconv"
	"strings"
)

type SortKey string

const (
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// DistanceBucket is a "within N km" facet value.
type DistanceBucket string

const (
	DistanceNearby DistanceBucket = "nearby"
	Distance1Km    DistanceBucket = "1km"
	Distance3Km    DistanceBucket = "3km"
	Distance5Km    DistanceBucket = "5km"
)

// MaxKm is the inclusive upper bound of the bucket. Unknown buckets report false.
func (b DistanceBucket) MaxKm() (float64, bool) {
	switch b {
	case DistanceNearby, Distance1Km:
		return 1, true
	case Distance3Km:
		return 3, true
	case Distance5Km:
		return 5, true
	default:
		return 0, false
	}
}

// RatingBucket r covers [r, r+1); bucket 5 covers [5, +inf).
type RatingBucket int

func (b RatingBucket) Valid() bool { return b >= 1 && b <= 5 }

// Contains reports whether rating falls inside the bucket.
func (b RatingBucket) Contains(rating float64) bool {
	lower := float64(b)
	if b == 5 {
		return rating >= lower
	}
	return rating >= lower && rating < lower+1
}

// ParseRatingBucket accepts "1".."5".
func ParseRatingBucket(raw string) (RatingBucket, bool) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	bucket := RatingBucket(value)
	return bucket, bucket.Valid()
}

// State is the listing facet selection. Price bounds stay raw strings until evaluation.
type State struct {
	SearchQuery      string           `json:"searchQuery"`
	SelectedCategory string           `json:"selectedCategory"`
	SortBy           SortKey          `json:"sortBy"`
	SortOrder        SortOrder        `json:"sortOrder"`
	PriceMin         string           `json:"priceMin"`
	PriceMax         string           `json:"priceMax"`
	Distance         []DistanceBucket `json:"distance"`
	Rating           []RatingBucket   `json:"rating"`
}

// Defaults is the single canonical starting point, also restored by ClearFilters.
func Defaults() State {
	return State{
		SortBy:    SortNameAsc,
		SortOrder: SortOrderAsc,
		Distance:  []DistanceBucket{},
		Rating:    []RatingBucket{},
	}
}

// HasActiveFacets reports whether any distance, price or rating facet is set.
func (s State) HasActiveFacets() bool {
	return len(s.Distance) > 0 || len(s.Rating) > 0 ||
		strings.TrimSpace(s.PriceMin) != "" || strings.TrimSpace(s.PriceMax) != ""
}

// HasSearch reports whether the free-text query is non-empty.
func (s State) HasSearch() bool {
	return strings.TrimSpace(s.SearchQuery) != ""
}

// PriceBounds parses the raw price strings. Empty or unparsable values mean no bound.
func (s State) PriceBounds() (lower float64, hasLower bool, upper float64, hasUpper bool) {
	lower, hasLower = parseBound(s.PriceMin)
	upper, hasUpper = parseBound(s.PriceMax)
	return
}

func parseBound(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Clone copies the facet slices.
func (s State) Clone() State {
	s.Distance = slices.Clone(s.Distance)
	s.Rating = slices.Clone(s.Rating)
	if s.Distance == nil {
		s.Distance = []DistanceBucket{}
	}
	if s.Rating == nil {
		s.Rating = []RatingBucket{}
	}
	return s
}

func validSortKey(key SortKey) bool {
	switch key {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return true
	}
	return false
}

func validSortOrder(order SortOrder) bool {
	return order == SortOrderAsc || order == SortOrderDesc
}
