// internal/pkg/keyval/store_test.go
package keyval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "missing")
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, store.Set(ctx, "k", "v"))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	exists, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Get(ctx, "k")
	assert.Equal(t, ErrNotFound, err)

	// Deleting an absent key is not an error
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestPrefixedIsolation(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()

	deviceA := Prefixed(base, "client:a:")
	deviceB := Prefixed(base, "client:b:")

	require.NoError(t, deviceA.Set(ctx, "saltbee-cart", "a-cart"))
	require.NoError(t, deviceB.Set(ctx, "saltbee-cart", "b-cart"))

	valueA, err := deviceA.Get(ctx, "saltbee-cart")
	require.NoError(t, err)
	valueB, err := deviceB.Get(ctx, "saltbee-cart")
	require.NoError(t, err)
	assert.Equal(t, "a-cart", valueA)
	assert.Equal(t, "b-cart", valueB)

	// Deleting on one device must not touch the other
	require.NoError(t, deviceA.Delete(ctx, "saltbee-cart"))
	_, err = deviceA.Get(ctx, "saltbee-cart")
	assert.Equal(t, ErrNotFound, err)
	valueB, err = deviceB.Get(ctx, "saltbee-cart")
	require.NoError(t, err)
	assert.Equal(t, "b-cart", valueB)

	// The underlying keys carry the namespace
	raw, err := base.Get(ctx, "client:b:saltbee-cart")
	require.NoError(t, err)
	assert.Equal(t, "b-cart", raw)
}

func TestPrefixedExists(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	scoped := Prefixed(base, "client:x:")

	exists, err := scoped.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, scoped.Set(ctx, "k", "v"))
	exists, err = scoped.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}
