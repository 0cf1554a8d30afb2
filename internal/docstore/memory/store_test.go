package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snapgram/internal/core"
	"snapgram/internal/docstore/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return store
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	doc, err := store.CreateDocument(context.Background(), "things", "id-1", map[string]any{"name": "a"})
	require.NoError(t, err)
	require.Equal(t, "id-1", doc.ID)
	require.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	_, err = store.CreateDocument(context.Background(), "things", "id-1", nil)
	require.ErrorIs(t, err, core.ErrDuplicateID)

	got, err := store.GetDocument(context.Background(), "things", "id-1")
	require.NoError(t, err)
	require.Equal(t, "a", got.Data["name"])

	updated, err := store.UpdateDocument(context.Background(), "things", "id-1", map[string]any{"name": "b"})
	require.NoError(t, err)
	require.Equal(t, "b", updated.Data["name"])
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, store.DeleteDocument(context.Background(), "things", "id-1"))
	require.ErrorIs(t, store.DeleteDocument(context.Background(), "things", "id-1"), core.ErrNotFound)

	_, err = store.GetDocument(context.Background(), "things", "id-1")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestStore_DocumentsAreIsolated(t *testing.T) {
	t.Parallel()

	store := newStore(t)

	data := map[string]any{"tags": []string{"a"}}
	doc, err := store.CreateDocument(context.Background(), "things", "id-1", data)
	require.NoError(t, err)

	// Mutating inputs and outputs never leaks into the store.
	data["tags"] = []string{"changed"}
	doc.Data["extra"] = true

	got, err := store.GetDocument(context.Background(), "things", "id-1")
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, got.Data["tags"])
	require.NotContains(t, got.Data, "extra")
}

func TestStore_ListDocuments(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *memory.Store {
		t.Helper()

		store := newStore(t)
		for i := range 5 {
			_, err := store.CreateDocument(context.Background(), "things", fmt.Sprintf("id-%d", i), map[string]any{
				"owner":   "alice",
				"caption": fmt.Sprintf("Caption Number %d", i),
			})
			require.NoError(t, err)
		}
		return store
	}

	t.Run("equal filter", func(t *testing.T) {
		t.Parallel()

		store := seed(t)
		_, err := store.CreateDocument(context.Background(), "things", "other", map[string]any{"owner": "bob"})
		require.NoError(t, err)

		list, err := store.ListDocuments(context.Background(), "things", core.Equal("owner", "alice"))
		require.NoError(t, err)
		require.EqualValues(t, 5, list.Total)
	})

	t.Run("search is a case-insensitive substring match", func(t *testing.T) {
		t.Parallel()

		store := seed(t)

		list, err := store.ListDocuments(context.Background(), "things", core.Search("caption", "number 3"))
		require.NoError(t, err)
		require.EqualValues(t, 1, list.Total)
		require.Equal(t, "id-3", list.Documents[0].ID)
	})

	t.Run("order desc by creation time", func(t *testing.T) {
		t.Parallel()

		store := seed(t)

		list, err := store.ListDocuments(context.Background(), "things", core.OrderDesc("$createdAt"))
		require.NoError(t, err)
		require.Equal(t, "id-4", list.Documents[0].ID)
		require.Equal(t, "id-0", list.Documents[4].ID)
	})

	t.Run("limit keeps total intact", func(t *testing.T) {
		t.Parallel()

		store := seed(t)

		list, err := store.ListDocuments(context.Background(), "things", core.Limit(2))
		require.NoError(t, err)
		require.Len(t, list.Documents, 2)
		require.EqualValues(t, 5, list.Total)
	})

	t.Run("cursor resumes after the given id", func(t *testing.T) {
		t.Parallel()

		store := seed(t)

		list, err := store.ListDocuments(context.Background(), "things",
			core.OrderDesc("$createdAt"),
			core.CursorAfter("id-3"),
			core.Limit(2),
		)
		require.NoError(t, err)
		require.Len(t, list.Documents, 2)
		require.Equal(t, "id-2", list.Documents[0].ID)
		require.Equal(t, "id-1", list.Documents[1].ID)
	})

	t.Run("unknown cursor returns the full set", func(t *testing.T) {
		t.Parallel()

		store := seed(t)

		list, err := store.ListDocuments(context.Background(), "things", core.CursorAfter("missing"))
		require.NoError(t, err)
		require.Len(t, list.Documents, 5)
	})
}
