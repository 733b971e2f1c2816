package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"storefrontWs/internal/modules/cart/application/port"
	"storefrontWs/internal/modules/cart/domain"
	"storefrontWs/internal/shared/changefeed"
)

// CartStore owns one session's cart. Every mutation goes through Dispatch, which applies the
// reducer and overwrites the persisted snapshot. Persistence failures are logged and dropped.
type CartStore struct {
	sessionID string
	repo      port.SnapshotRepository
	now       func() time.Time
	loc       *time.Location

	mu      sync.Mutex
	state   domain.Snapshot
	marker  time.Time
	version uint64
	changes changefeed.Feed[domain.Snapshot]
}

func NewCartStore(sessionID string, repo port.SnapshotRepository, now func() time.Time, loc *time.Location) *CartStore {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &CartStore{
		sessionID: sessionID,
		repo:      repo,
		now:       now,
		loc:       loc,
		state:     domain.Empty(),
	}
}

// Load restores the persisted cart, applying the daily reset rule, and makes it the current state.
func (s *CartStore) Load(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		slog.Warn("cart load failed, starting empty", slog.String("sessionId", s.sessionID), slog.Any("error", err))
		snapshot = domain.Empty()
	}
	if s.marker.IsZero() {
		s.marker = s.now()
	}
	s.state = snapshot
	return snapshot.Clone()
}

func (s *CartStore) loadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	now := s.now()

	marker, found, err := s.repo.LoadMarker(ctx)
	switch {
	case errors.Is(err, port.ErrCorruptMarker):
		slog.Warn("cart clear marker unreadable, resetting marker", slog.String("sessionId", s.sessionID), slog.Any("error", err))
		found = false
	case err != nil:
		return domain.Empty(), err
	}

	if !found {
		s.saveMarkerLocked(ctx, now)
	} else if markerExpired(marker, now, s.loc) {
		slog.Info("cart expired by daily reset", slog.String("sessionId", s.sessionID), slog.Time("marker", marker))
		s.discardLocked(ctx, now)
		return domain.Empty(), nil
	} else {
		s.marker = marker
	}

	snapshot, _, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return domain.Empty(), err
	}
	return snapshot, nil
}

// ResetIfNewDay empties a cart that stayed in memory past the local day of its clear marker.
// It reports whether the cart was reset; listeners see the empty cart.
func (s *CartStore) ResetIfNewDay(ctx context.Context) bool {
	s.mu.Lock()
	now := s.now()
	if s.marker.IsZero() || !markerExpired(s.marker, now, s.loc) {
		s.mu.Unlock()
		return false
	}
	slog.Info("cart expired by daily reset", slog.String("sessionId", s.sessionID), slog.Time("marker", s.marker))
	s.discardLocked(ctx, now)
	s.state = domain.Empty()
	s.version++
	version, next := s.version, s.state.Clone()
	s.mu.Unlock()

	s.changes.Publish(version, next)
	return true
}

func (s *CartStore) discardLocked(ctx context.Context, now time.Time) {
	if err := s.repo.DeleteSnapshot(ctx); err != nil {
		slog.Warn("cart delete failed", slog.String("sessionId", s.sessionID), slog.Any("error", err))
	}
	s.saveMarkerLocked(ctx, now)
}

func (s *CartStore) saveMarkerLocked(ctx context.Context, now time.Time) {
	s.marker = now
	if err := s.repo.SaveMarker(ctx, now); err != nil {
		slog.Warn("cart clear marker write failed", slog.String("sessionId", s.sessionID), slog.Any("error", err))
	}
}

// Snapshot returns a copy of the current cart.
func (s *CartStore) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action, persists the resulting snapshot and notifies listeners.
// When dispatches overlap, listeners finish on the newest snapshot.
func (s *CartStore) Dispatch(ctx context.Context, action domain.Action) domain.Snapshot {
	s.mu.Lock()
	next := domain.Reduce(s.state, action)
	s.state = next
	s.version++
	version := s.version
	if err := s.repo.SaveSnapshot(ctx, next); err != nil {
		slog.Warn("cart persist failed", slog.String("sessionId", s.sessionID), slog.String("action", action.Name()), slog.Any("error", err))
	}
	s.mu.Unlock()

	s.changes.Publish(version, next.Clone())
	return next.Clone()
}

// OnChange registers fn to run after every state change.
func (s *CartStore) OnChange(fn func(domain.Snapshot)) {
	s.changes.Subscribe(fn)
}
