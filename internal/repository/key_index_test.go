package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIndex_ListEmpty(t *testing.T) {
	index := NewKeyIndex(newFakeRecordStore())

	keys, err := index.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeyIndex_AddRemove(t *testing.T) {
	index := NewKeyIndex(newFakeRecordStore())
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "chapter1"))
	require.NoError(t, index.Add(ctx, "chapter2"))

	keys, err := index.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chapter1", "chapter2"}, keys)

	t.Run("AddIsIdempotent", func(t *testing.T) {
		require.NoError(t, index.Add(ctx, "chapter1"))
		keys, err := index.List(ctx)
		require.NoError(t, err)
		assert.Len(t, keys, 2)
	})

	t.Run("RemoveExisting", func(t *testing.T) {
		require.NoError(t, index.Remove(ctx, "chapter1"))
		keys, err := index.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"chapter2"}, keys)
	})

	t.Run("RemoveAbsentIsNoop", func(t *testing.T) {
		require.NoError(t, index.Remove(ctx, "unknown"))
		keys, err := index.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"chapter2"}, keys)
	})
}

func TestKeyIndex_Clear(t *testing.T) {
	index := NewKeyIndex(newFakeRecordStore())
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, "chapter1"))
	require.NoError(t, index.Clear(ctx))

	keys, err := index.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKeyIndex_CorruptEntry(t *testing.T) {
	store := newFakeRecordStore()
	store.data["askvantage:texts:index"] = "not-json"
	index := NewKeyIndex(store)

	_, err := index.List(context.Background())
	assert.Error(t, err)
}
