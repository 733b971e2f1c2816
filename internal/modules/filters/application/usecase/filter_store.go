package usecase

import (
	"log/slog"
	"sync"

	"storefrontWs/internal/modules/filters/domain"
	"storefrontWs/internal/shared/changefeed"
)

// FilterStore holds one session's listing facets in memory. It is never persisted.
type FilterStore struct {
	sessionID string

	mu      sync.Mutex
	state   domain.State
	version uint64
	changes changefeed.Feed[domain.State]
}

func NewFilterStore(sessionID string) *FilterStore {
	return &FilterStore{sessionID: sessionID, state: domain.Defaults()}
}

// State returns a copy of the current facets.
func (s *FilterStore) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies actions in order as one state replacement and notifies listeners once.
func (s *FilterStore) Dispatch(actions ...domain.Action) domain.State {
	s.mu.Lock()
	next := s.state
	for _, action := range actions {
		next = domain.Reduce(next, action)
		slog.Debug("filters action", slog.String("sessionId", s.sessionID), slog.String("action", action.Name()))
	}
	s.state = next
	s.version++
	version := s.version
	s.mu.Unlock()

	s.changes.Publish(version, next.Clone())
	return next.Clone()
}

// ApplyPreset clears the facets and applies a named quick filter. Unknown presets report false.
func (s *FilterStore) ApplyPreset(preset string) (domain.State, bool) {
	actions := domain.PresetActions(preset)
	if actions == nil {
		return s.State(), false
	}
	return s.Dispatch(actions...), true
}

// OnChange registers fn. Overlapping dispatches never leave fn on an older state.
func (s *FilterStore) OnChange(fn func(domain.State)) {
	s.changes.Subscribe(fn)
}
