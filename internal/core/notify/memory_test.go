package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	for _, msg := range []string{"one", "two", "three"} {
		_, err := s.Save(ctx, Notification{Level: LevelInfo, Message: msg})
		require.NoError(t, err)
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2, "oldest entry trimmed")
	assert.Equal(t, "three", items[0].Message)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, "two", items[1].Message)
	assert.False(t, items[0].CreatedAt.IsZero())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, s.Clear(ctx))
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStore_Unlimited(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	for range 5 {
		_, err := s.Save(ctx, Notification{Message: "x"})
		require.NoError(t, err)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
