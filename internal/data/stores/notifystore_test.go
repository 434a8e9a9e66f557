package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestNotifyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		id, err := store.Save(ctx, notify.Notification{
			Level:     notify.LevelWarning,
			Source:    "analysis",
			Message:   "analysis failed",
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, notify.LevelWarning, items[0].Level)
		assert.Equal(t, "analysis", items[0].Source)
		assert.Equal(t, "analysis failed", items[0].Message)
		assert.Equal(t, id, items[0].ID)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		base := time.Now()
		for i, msg := range []string{"first", "second", "third"} {
			_, err := store.Save(ctx, notify.Notification{
				Level:     notify.LevelInfo,
				Message:   msg,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Message)
		assert.Equal(t, "first", items[2].Message)
	})

	t.Run("history is capped", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 2)

		for _, msg := range []string{"a", "b", "c"} {
			_, err := store.Save(ctx, notify.Notification{Level: notify.LevelInfo, Message: msg})
			require.NoError(t, err)
		}

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "c", items[0].Message)
		assert.Equal(t, "b", items[1].Message)
	})

	t.Run("clear deletes all", func(t *testing.T) {
		store := NewNotifyStore(openTestDB(t), 0)

		_, err := store.Save(ctx, notify.Notification{Level: notify.LevelError, Message: "boom"})
		require.NoError(t, err)
		require.NoError(t, store.Clear(ctx))

		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}
