package port

import (
	"context"
	"errors"
	"time"

	"storefrontWs/internal/modules/cart/domain"
)

var (
	ErrCartPersistence = errors.New("cart persistence failure")
	ErrCorruptSnapshot = errors.New("corrupt cart snapshot")
	ErrCorruptMarker   = errors.New("corrupt cart clear marker")
)

// SnapshotRepository stores one cart snapshot and its daily reset marker.
// Load methods report found=false when nothing has been written yet.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context) (domain.Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	DeleteSnapshot(ctx context.Context) error
	LoadMarker(ctx context.Context) (time.Time, bool, error)
	SaveMarker(ctx context.Context, at time.Time) error
}
