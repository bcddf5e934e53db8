package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CompareAndSwap(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	rev, err := store.CompareAndSwap(ctx, "k", "a", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	_, err = store.CompareAndSwap(ctx, "k", "b", 0)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, store.Set(ctx, "k", "c"))
	value, rev, err := store.GetVersioned(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "c", value)
	assert.Equal(t, int64(2), rev)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)
}
