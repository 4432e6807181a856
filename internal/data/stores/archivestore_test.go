package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/data/db"
)

func TestArchiveStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and list", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewArchiveStore(database)

		now := time.Now()
		id, err := store.Save(ctx, feed.Notification{
			ID:        "n1",
			Title:     "Interview Scheduled",
			Content:   "Tuesday 10:00",
			User:      "a@x.com",
			CreatedAt: now,
		}, feed.ChannelPrivate)
		require.NoError(t, err)
		assert.Positive(t, id)

		items, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "n1", items[0].ID)
		assert.Equal(t, "Interview Scheduled", items[0].Title)
		assert.Equal(t, "a@x.com", items[0].User)
		assert.Equal(t, feed.ChannelPrivate, items[0].Channel)
		assert.Equal(t, now.UnixNano(), items[0].CreatedAt.UnixNano())
	})

	t.Run("list returns newest first", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewArchiveStore(database)

		base := time.Now()
		for i, title := range []string{"first", "second", "third"} {
			_, err := store.Save(ctx, feed.Notification{
				ID:        title,
				Title:     title,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			}, feed.ChannelPush)
			require.NoError(t, err)
		}

		items, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "third", items[0].Title)
		assert.Equal(t, "second", items[1].Title)
		assert.Equal(t, "first", items[2].Title)

		limited, err := store.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, "third", limited[0].Title)
	})

	t.Run("clear deletes all", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewArchiveStore(database)

		_, err = store.Save(ctx, feed.Notification{ID: "n1", Title: "t", CreatedAt: time.Now()}, feed.ChannelPublic)
		require.NoError(t, err)

		require.NoError(t, store.Clear(ctx))

		items, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("count", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewArchiveStore(database)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		for i := range 3 {
			_, err := store.Save(ctx, feed.Notification{
				ID:        "n",
				Title:     "t",
				CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond),
			}, feed.ChannelPush)
			require.NoError(t, err)
		}

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("duplicate external ids are allowed", func(t *testing.T) {
		// The archive is append-only; upstream dedup is the dispatcher's job.
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewArchiveStore(database)

		for range 2 {
			_, err := store.Save(ctx, feed.Notification{ID: "same", Title: "t", CreatedAt: time.Now()}, feed.ChannelPush)
			require.NoError(t, err)
		}

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
