package domain

import "strings"

// Action is a filter mutation applied by Reduce.
type Action interface {
	apply(s *State)
	Name() string
}

type SetSearchQuery struct{ Value string }
type SetSelectedCategory struct{ Value string }
type SetSortBy struct{ Value SortKey }
type SetSortOrder struct{ Value SortOrder }
type SetPriceMin struct{ Value string }
type SetPriceMax struct{ Value string }
type ToggleDistance struct{ Bucket DistanceBucket }
type ToggleRating struct{ Bucket RatingBucket }
type ClearFilters struct{}

func (SetSearchQuery) Name() string      { return "setSearchQuery" }
func (SetSelectedCategory) Name() string { return "setSelectedCategory" }
func (SetSortBy) Name() string           { return "setSortBy" }
func (SetSortOrder) Name() string        { return "setSortOrder" }
func (SetPriceMin) Name() string         { return "setPriceMin" }
func (SetPriceMax) Name() string         { return "setPriceMax" }
func (ToggleDistance) Name() string      { return "toggleDistance" }
func (ToggleRating) Name() string        { return "toggleRating" }
func (ClearFilters) Name() string        { return "clearFilters" }

// Reduce returns the state after action. Values outside the enumerations are ignored.
func Reduce(s State, action Action) State {
	next := s.Clone()
	if action != nil {
		action.apply(&next)
	}
	return next
}

func (a SetSearchQuery) apply(s *State)      { s.SearchQuery = a.Value }
func (a SetSelectedCategory) apply(s *State) { s.SelectedCategory = strings.TrimSpace(a.Value) }
func (a SetPriceMin) apply(s *State)         { s.PriceMin = a.Value }
func (a SetPriceMax) apply(s *State)         { s.PriceMax = a.Value }
func (ClearFilters) apply(s *State)          { *s = Defaults() }

func (a SetSortBy) apply(s *State) {
	if validSortKey(a.Value) {
		s.SortBy = a.Value
	}
}

func (a SetSortOrder) apply(s *State) {
	if validSortOrder(a.Value) {
		s.SortOrder = a.Value
	}
}

func (a ToggleDistance) apply(s *State) {
	if _, ok := a.Bucket.MaxKm(); !ok {
		return
	}
	s.Distance = toggle(s.Distance, a.Bucket)
}

func (a ToggleRating) apply(s *State) {
	if !a.Bucket.Valid() {
		return
	}
	s.Rating = toggle(s.Rating, a.Bucket)
}

func toggle[T comparable](set []T, value T) []T {
	for i, existing := range set {
		if existing == value {
			return append(set[:i], set[i+1:]...)
		}
	}
	return append(set, value)
}
