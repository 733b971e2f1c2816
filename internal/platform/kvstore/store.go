// Package kvstore is the synchronous string key-value persistence adapter used by
// session state. Callers treat stored values as opaque strings.
package kvstore

import (
	"context"
	"strings"
)

// Store is the persistence port. Get reports found=false for missing keys without an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const keyDelimiter = ":"

type scopedStore struct {
	inner  Store
	prefix string
}

// Scoped returns a Store that prefixes every key with scope, so each session can keep
// the plain key names ("cart", "cartLastClearTime") inside its own namespace.
func Scoped(inner Store, scope string) Store {
	scope = strings.Trim(strings.TrimSpace(scope), keyDelimiter)
	if scope == "" {
		return inner
	}
	return &scopedStore{inner: inner, prefix: scope + keyDelimiter}
}

func (s *scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
