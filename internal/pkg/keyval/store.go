// internal/pkg/keyval/store.go
package keyval

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("keyval: key not found")

// Store is the durable client-state substrate. Each device's state is written
// through this port so tests can substitute an in-memory implementation for
// the Redis-backed one.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Prefixed returns a Store view with all keys prefixed, used to namespace
// per-device state under a shared substrate.
func Prefixed(store Store, prefix string) Store {
	return &prefixedStore{store: store, prefix: prefix}
}

type prefixedStore struct {
	store  Store
	prefix string
}

func (p *prefixedStore) Get(ctx context.Context, key string) (string, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p *prefixedStore) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+key, value)
}

func (p *prefixedStore) Delete(ctx context.Context, key string) error {
	return p.store.Delete(ctx, p.prefix+key)
}

func (p *prefixedStore) Exists(ctx context.Context, key string) (bool, error) {
	return p.store.Exists(ctx, p.prefix+key)
}
