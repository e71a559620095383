package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, found, err := s.Get(ctx, "u/a/debts")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`[]`)
	require.NoError(t, s.Put(ctx, "u/a/debts", value))
	value[0] = 'x'

	got, found, err := s.Get(ctx, "u/a/debts")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[]`), got, "stored value must not alias the caller's slice")

	require.NoError(t, s.Delete(ctx, "u/a/debts"))
	require.NoError(t, s.Delete(ctx, "u/a/debts"))
	assert.Zero(t, s.Len())
}

func TestStore_ListKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for _, k := range []string{"u/a/day/2025-01-02", "u/a/day/2025-01-01", "u/ab/day/2025-01-01", "u/a/debts"} {
		require.NoError(t, s.Put(ctx, k, []byte("{}")))
	}

	keys, err := s.ListKeys(ctx, "u/a/day/")
	require.NoError(t, err)
	assert.Equal(t, []string{"u/a/day/2025-01-01", "u/a/day/2025-01-02"}, keys)

	keys, err = s.ListKeys(ctx, "u/a/")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestStore_PutRequiresKey(t *testing.T) {
	assert.Error(t, NewStore().Put(context.Background(), "", nil))
}
