package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefrontWs/internal/modules/cart/application/port"
	"storefrontWs/internal/modules/cart/domain"
	"storefrontWs/internal/platform/kvstore"
)

const (
	CartKey      = "cart"
	LastClearKey = "cartLastClearTime"
	markerLayout = "2006-01-02T15:04:05.000Z07:00"
)

// KVSnapshotRepository keeps the cart as JSON under "cart" and the marker as an
// ISO-8601 UTC timestamp under "cartLastClearTime".
type KVSnapshotRepository struct {
	store kvstore.Store
}

func NewKVSnapshotRepository(store kvstore.Store) *KVSnapshotRepository {
	return &KVSnapshotRepository{store: store}
}

func (r *KVSnapshotRepository) LoadSnapshot(ctx context.Context) (domain.Snapshot, bool, error) {
	raw, found, err := r.store.Get(ctx, CartKey)
	if err != nil {
		return domain.Empty(), false, fmt.Errorf("%w: %v", port.ErrCartPersistence, err)
	}
	if !found {
		return domain.Empty(), false, nil
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return domain.Empty(), true, fmt.Errorf("%w: %v", port.ErrCorruptSnapshot, err)
	}
	return domain.Sanitize(snapshot), true, nil
}

func (r *KVSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if snapshot.Items == nil {
		snapshot.Items = []domain.LineItem{}
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrCartPersistence, err)
	}
	if err := r.store.Set(ctx, CartKey, string(payload)); err != nil {
		return fmt.Errorf("%w: %v", port.ErrCartPersistence, err)
	}
	return nil
}

func (r *KVSnapshotRepository) DeleteSnapshot(ctx context.Context) error {
	if err := r.store.Delete(ctx, CartKey); err != nil {
		return fmt.Errorf("%w: %v", port.ErrCartPersistence, err)
	}
	return nil
}

func (r *KVSnapshotRepository) LoadMarker(ctx context.Context) (time.Time, bool, error) {
	raw, found, err := r.store.Get(ctx, LastClearKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %v", port.ErrCartPersistence, err)
	}
	if !found {
		return time.Time{}, false, nil
	}
	at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %v", port.ErrCorruptMarker, err)
	}
	return at, true, nil
}

func (r *KVSnapshotRepository) SaveMarker(ctx context.Context, at time.Time) error {
	if err := r.store.Set(ctx, LastClearKey, at.UTC().Format(markerLayout)); err != nil {
		return fmt.Errorf("%w: %v", port.ErrCartPersistence, err)
	}
	return nil
}

var _ port.SnapshotRepository = (*KVSnapshotRepository)(nil)
