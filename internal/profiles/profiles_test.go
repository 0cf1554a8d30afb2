package profiles_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snapgram/internal/core"
	"snapgram/internal/docstore/memory"
	"snapgram/internal/profiles"
)

var errStore = errors.New("store is down")

type fakeStorage struct {
	mu      sync.Mutex
	seq     int
	deleted []string
}

func (f *fakeStorage) Upload(_ context.Context, filename string, _ io.Reader) (*core.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	return &core.File{ID: fmt.Sprintf("avatar-%d", f.seq), Name: filename}, nil
}

func (f *fakeStorage) ViewURL(fileID string) string {
	return "https://files.example.com/" + fileID + "/preview"
}

func (f *fakeStorage) Delete(_ context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, fileID)
	return nil
}

type brokenWrites struct {
	core.DocumentStore
}

func (b brokenWrites) UpdateDocument(context.Context, string, string, map[string]any) (*core.Document, error) {
	return nil, errStore
}

func newService(t *testing.T) (*profiles.Service, *memory.Store, *fakeStorage) {
	t.Helper()

	docs := memory.New()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	storage := &fakeStorage{}
	service := &profiles.Service{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Docs:    docs,
		Storage: storage,
	}
	require.NoError(t, service.Init(context.Background()))

	return service, docs, storage
}

func seedUser(t *testing.T, docs *memory.Store, id, name string) {
	t.Helper()

	_, err := docs.CreateDocument(context.Background(), core.CollectionUsers, id, map[string]any{
		"name":    name,
		"imageId": "avatar-old",
	})
	require.NoError(t, err)
}

func TestService_List(t *testing.T) {
	t.Parallel()

	service, docs, _ := newService(t)
	for i := range 5 {
		seedUser(t, docs, fmt.Sprintf("user-%d", i), fmt.Sprintf("User %d", i))
	}

	users, err := service.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, users, 5)
	require.Equal(t, "user-4", users[0].ID)

	users, err = service.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "user-4", users[0].ID)
	require.Equal(t, "user-3", users[1].ID)
}

func TestService_GetByID(t *testing.T) {
	t.Parallel()

	service, docs, _ := newService(t)
	seedUser(t, docs, "user-1", "Alice")

	user, err := service.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)

	_, err = service.GetByID(context.Background(), "")
	require.ErrorIs(t, err, core.ErrEmptyUserID)

	_, err = service.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	t.Run("without a new avatar", func(t *testing.T) {
		t.Parallel()

		service, docs, storage := newService(t)
		seedUser(t, docs, "user-1", "Alice")

		user, err := service.Update(context.Background(), profiles.UpdateUser{
			UserID:   "user-1",
			Name:     "Alice B",
			Bio:      "hello",
			ImageURL: "https://files.example.com/avatar-old/view",
			ImageID:  "avatar-old",
		})
		require.NoError(t, err)
		require.Equal(t, "Alice B", user.Name)
		require.Equal(t, "hello", user.Bio)
		require.Equal(t, "avatar-old", user.ImageID)
		require.Empty(t, storage.deleted)
	})

	t.Run("replaces the avatar and removes the old one", func(t *testing.T) {
		t.Parallel()

		service, docs, storage := newService(t)
		seedUser(t, docs, "user-1", "Alice")

		user, err := service.Update(context.Background(), profiles.UpdateUser{
			UserID:  "user-1",
			Name:    "Alice",
			ImageID: "avatar-old",
			File:    strings.NewReader("png"),
		})
		require.NoError(t, err)
		require.Equal(t, "avatar-1", user.ImageID)
		require.Equal(t, "https://files.example.com/avatar-1/view", user.ImageURL)
		require.Equal(t, []string{"avatar-old"}, storage.deleted)
	})

	t.Run("a failed update removes only the new avatar", func(t *testing.T) {
		t.Parallel()

		service, docs, storage := newService(t)
		seedUser(t, docs, "user-1", "Alice")

		service.Docs = brokenWrites{docs}

		_, err := service.Update(context.Background(), profiles.UpdateUser{
			UserID:  "user-1",
			Name:    "Alice",
			ImageID: "avatar-old",
			File:    strings.NewReader("png"),
		})
		require.ErrorIs(t, err, errStore)
		require.Equal(t, []string{"avatar-1"}, storage.deleted)

		doc, err := docs.GetDocument(context.Background(), core.CollectionUsers, "user-1")
		require.NoError(t, err)
		require.Equal(t, "avatar-old", core.UserFromDocument(*doc).ImageID)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		t.Parallel()

		service, _, _ := newService(t)

		_, err := service.Update(context.Background(), profiles.UpdateUser{})
		require.ErrorIs(t, err, core.ErrEmptyUserID)
	})
}
