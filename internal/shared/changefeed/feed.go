// Package changefeed delivers versioned state snapshots to listeners.
package changefeed

import "sync"

// Feed fans a state snapshot out to its listeners. Deliveries are serialized and a version
// at or below the last delivered one is dropped, so the final value a listener receives is
// always the newest published state. The zero value is ready to use.
type Feed[T any] struct {
	mu        sync.Mutex
	listeners []func(T)

	deliverMu sync.Mutex
	delivered uint64
}

// Subscribe registers fn. nil is ignored.
func (f *Feed[T]) Subscribe(fn func(T)) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// Publish delivers value as version. It reports false when a newer version already went out.
// Listeners must not publish to the same feed.
func (f *Feed[T]) Publish(version uint64, value T) bool {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()
	if version <= f.delivered {
		return false
	}
	f.delivered = version

	f.mu.Lock()
	listeners := make([]func(T), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
	return true
}
