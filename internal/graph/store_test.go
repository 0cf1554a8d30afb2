package graph_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"snapgram/internal/core"
	"snapgram/internal/docstore/memory"
	"snapgram/internal/graph"
)

var errStore = errors.New("store is down")

func newStore(t *testing.T) (*graph.Store, *memory.Store) {
	t.Helper()

	docs := memory.New()
	store := &graph.Store{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Docs:   docs,
	}
	require.NoError(t, store.Init(context.Background()))

	return store, docs
}

// brokenLists fails every list query while letting everything else
// through to the wrapped store.
type brokenLists struct {
	core.DocumentStore
}

func (b brokenLists) ListDocuments(context.Context, string, ...core.Query) (*core.DocumentList, error) {
	return nil, errStore
}

func seedUser(t *testing.T, docs *memory.Store, id, name string) {
	t.Helper()

	_, err := docs.CreateDocument(context.Background(), core.CollectionUsers, id, map[string]any{
		"name":     name,
		"username": name,
	})
	require.NoError(t, err)
}

func TestStore_Follow(t *testing.T) {
	t.Parallel()

	t.Run("creates an edge", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		edge, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)
		require.Equal(t, "alice", edge.FollowerID)
		require.Equal(t, "bob", edge.FollowingID)
		require.False(t, edge.FollowedAt.IsZero())
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		first, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)

		second, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)

		require.Equal(t, first.ID, second.ID)
		require.EqualValues(t, 1, store.FollowerCount(context.Background(), "bob"))
	})

	t.Run("is directional", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		_, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)

		_, err = store.Follow(context.Background(), "bob", "alice")
		require.NoError(t, err)

		require.EqualValues(t, 1, store.FollowerCount(context.Background(), "bob"))
		require.EqualValues(t, 1, store.FollowingCount(context.Background(), "bob"))
	})

	t.Run("rejects empty ids", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		_, err := store.Follow(context.Background(), "", "bob")
		require.ErrorIs(t, err, core.ErrEmptyFollowID)

		_, err = store.Follow(context.Background(), "alice", "")
		require.ErrorIs(t, err, core.ErrEmptyFollowID)
	})
}

func TestStore_Unfollow(t *testing.T) {
	t.Parallel()

	t.Run("removes the edge", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		_, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)

		require.NoError(t, store.Unfollow(context.Background(), "alice", "bob"))
		require.Nil(t, store.FollowStatus(context.Background(), "alice", "bob"))
		require.EqualValues(t, 0, store.FollowerCount(context.Background(), "bob"))
	})

	t.Run("succeeds when the edge is missing", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.NoError(t, store.Unfollow(context.Background(), "alice", "bob"))
	})

	t.Run("rejects empty ids", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.ErrorIs(t, store.Unfollow(context.Background(), "", "bob"), core.ErrEmptyFollowID)
	})
}

func TestStore_FollowStatus(t *testing.T) {
	t.Parallel()

	t.Run("nil for empty ids", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.Nil(t, store.FollowStatus(context.Background(), "", "bob"))
		require.Nil(t, store.FollowStatus(context.Background(), "alice", ""))
	})

	t.Run("fails soft on store errors", func(t *testing.T) {
		t.Parallel()

		store, docs := newStore(t)
		store.Docs = brokenLists{docs}

		require.Nil(t, store.FollowStatus(context.Background(), "alice", "bob"))
		require.EqualValues(t, 0, store.FollowerCount(context.Background(), "bob"))
	})
}

func TestStore_FollowersAndFollowing(t *testing.T) {
	t.Parallel()

	t.Run("resolves profiles", func(t *testing.T) {
		t.Parallel()

		store, docs := newStore(t)
		seedUser(t, docs, "alice", "Alice")
		seedUser(t, docs, "carol", "Carol")
		seedUser(t, docs, "bob", "Bob")

		_, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)
		_, err = store.Follow(context.Background(), "carol", "bob")
		require.NoError(t, err)

		followers := store.Followers(context.Background(), "bob")
		require.Len(t, followers, 2)

		names := []string{followers[0].Name, followers[1].Name}
		require.ElementsMatch(t, []string{"Alice", "Carol"}, names)

		following := store.Following(context.Background(), "alice")
		require.Len(t, following, 1)
		require.Equal(t, "Bob", following[0].Name)
	})

	t.Run("drops followers whose profile lookup fails", func(t *testing.T) {
		t.Parallel()

		store, docs := newStore(t)
		seedUser(t, docs, "alice", "Alice")

		_, err := store.Follow(context.Background(), "alice", "bob")
		require.NoError(t, err)
		_, err = store.Follow(context.Background(), "ghost", "bob")
		require.NoError(t, err)

		followers := store.Followers(context.Background(), "bob")
		require.Len(t, followers, 1)
		require.Equal(t, "Alice", followers[0].Name)
	})

	t.Run("empty for unknown user", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t)

		require.Empty(t, store.Followers(context.Background(), "nobody"))
		require.Empty(t, store.Following(context.Background(), "nobody"))
	})
}
