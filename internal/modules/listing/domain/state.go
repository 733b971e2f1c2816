package domain

// LoadState is the listing lifecycle: Idle -> InitialLoading -> {Loaded, Error};
// Loaded -> LoadingMore -> Loaded. A context change goes back to InitialLoading.
// Error -> Loaded happens when a failed load-more is re-rendered from the pages already held.
type LoadState string

const (
	StateIdle           LoadState = "idle"
	StateInitialLoading LoadState = "initialLoading"
	StateLoaded         LoadState = "loaded"
	StateLoadingMore    LoadState = "loadingMore"
	StateError          LoadState = "error"
)

var allowedTransitions = map[LoadState][]LoadState{
	StateIdle:           {StateInitialLoading},
	StateInitialLoading: {StateLoaded, StateError, StateInitialLoading},
	StateLoaded:         {StateLoadingMore, StateInitialLoading},
	StateLoadingMore:    {StateLoaded, StateError, StateInitialLoading},
	StateError:          {StateInitialLoading, StateLoadingMore, StateLoaded},
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s LoadState) CanTransition(next LoadState) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsLoading reports whether a fetch is in flight.
func (s LoadState) IsLoading() bool {
	return s == StateInitialLoading || s == StateLoadingMore
}
