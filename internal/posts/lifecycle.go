// Package posts orchestrates the multi-step post lifecycle: media
// upload, document persistence and compensating cleanup when a step in
// the middle fails.
package posts

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"snapgram/internal/core"
	"snapgram/internal/feed"
)

type NewPost struct {
	UserID   string
	Caption  string
	Location string
	Tags     string

	FileName string
	File     io.Reader
}

type UpdatePost struct {
	PostID   string
	Caption  string
	Location string
	Tags     string
	ImageURL string
	ImageID  string

	// Nil File keeps the current media.
	FileName string
	File     io.Reader
}

type Manager struct {
	Logger   *slog.Logger
	Docs     core.DocumentStore
	Storage  core.FileStorage
	Activity core.ActivityPublisher
}

func (m *Manager) Init(_ context.Context) error {
	m.Logger = m.Logger.With("component", "posts.Manager")
	return nil
}

// Create uploads the media, then persists the post document. If the
// document step fails the uploaded media is deleted before returning,
// so no orphan survives a partial create.
func (m *Manager) Create(ctx context.Context, post NewPost) (*core.Post, error) {
	if post.File == nil {
		return nil, core.ErrNoMediaFile
	}

	uploaded, err := m.Storage.Upload(ctx, post.FileName, post.File)
	if err != nil {
		return nil, err
	}

	fileURL := feed.NormalizeMediaURL(m.Storage.ViewURL(uploaded.ID))
	if fileURL == "" {
		m.cleanupFile(ctx, uploaded.ID)
		return nil, core.ErrNoMediaFile
	}

	doc, err := m.Docs.CreateDocument(ctx, core.CollectionPosts, core.NewID(), map[string]any{
		"creator":  post.UserID,
		"caption":  post.Caption,
		"imageUrl": fileURL,
		"imageId":  uploaded.ID,
		"location": post.Location,
		"tags":     ParseTags(post.Tags),
	})
	if err != nil {
		m.cleanupFile(ctx, uploaded.ID)
		return nil, err
	}

	m.publish(ctx, core.ActivityPostCreated, post.UserID, doc.ID)

	created := core.PostFromDocument(*doc)
	return &created, nil
}

// Update persists new post content. When a new media file is supplied
// it is uploaded first and the document is pointed at it; only after
// that succeeds is the old media removed, so a failure mid-update never
// leaves the post without a valid image. A failed document update
// deletes the freshly uploaded file, not the old one.
func (m *Manager) Update(ctx context.Context, post UpdatePost) (*core.Post, error) {
	if post.PostID == "" {
		return nil, core.ErrEmptyPostID
	}

	imageURL := post.ImageURL
	imageID := post.ImageID
	hasNewFile := post.File != nil

	if hasNewFile {
		uploaded, err := m.Storage.Upload(ctx, post.FileName, post.File)
		if err != nil {
			return nil, err
		}
		imageURL = feed.NormalizeMediaURL(m.Storage.ViewURL(uploaded.ID))
		imageID = uploaded.ID
	}

	doc, err := m.Docs.UpdateDocument(ctx, core.CollectionPosts, post.PostID, map[string]any{
		"caption":  post.Caption,
		"imageUrl": imageURL,
		"imageId":  imageID,
		"location": post.Location,
		"tags":     ParseTags(post.Tags),
	})
	if err != nil {
		if hasNewFile {
			m.cleanupFile(ctx, imageID)
		}
		return nil, err
	}

	if hasNewFile && post.ImageID != "" {
		m.cleanupFile(ctx, post.ImageID)
	}

	m.publish(ctx, core.ActivityPostUpdated, "", post.PostID)

	updated := core.PostFromDocument(*doc)
	return &updated, nil
}

// Delete removes the document first; the media is deleted only after
// that succeeds. Media cleanup failure is logged, not surfaced: the
// post is gone either way.
func (m *Manager) Delete(ctx context.Context, postID, imageID string) error {
	if postID == "" {
		return core.ErrEmptyPostID
	}

	if err := m.Docs.DeleteDocument(ctx, core.CollectionPosts, postID); err != nil {
		return err
	}

	if imageID != "" {
		m.cleanupFile(ctx, imageID)
	}

	m.publish(ctx, core.ActivityPostDeleted, "", postID)
	return nil
}

// Like replaces the post's like set.
func (m *Manager) Like(ctx context.Context, postID string, likes []string) (*core.Post, error) {
	if postID == "" {
		return nil, core.ErrEmptyPostID
	}

	doc, err := m.Docs.UpdateDocument(ctx, core.CollectionPosts, postID, map[string]any{
		"likes": likes,
	})
	if err != nil {
		return nil, err
	}

	updated := core.PostFromDocument(*doc)
	return &updated, nil
}

// Save bookmarks a post for a user.
func (m *Manager) Save(ctx context.Context, userID, postID string) (*core.SavedPost, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}
	if postID == "" {
		return nil, core.ErrEmptyPostID
	}

	doc, err := m.Docs.CreateDocument(ctx, core.CollectionSaves, core.NewID(), map[string]any{
		"user": userID,
		"post": postID,
	})
	if err != nil {
		return nil, err
	}

	saved := core.SavedPostFromDocument(*doc)
	return &saved, nil
}

// DeleteSaved removes a bookmark by its record id.
func (m *Manager) DeleteSaved(ctx context.Context, savedRecordID string) error {
	return m.Docs.DeleteDocument(ctx, core.CollectionSaves, savedRecordID)
}

// SavedByUser lists a user's bookmarks.
func (m *Manager) SavedByUser(ctx context.Context, userID string) ([]core.SavedPost, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}

	list, err := m.Docs.ListDocuments(ctx, core.CollectionSaves, core.Equal("user", userID))
	if err != nil {
		return nil, err
	}

	return lo.Map(list.Documents, func(doc core.Document, _ int) core.SavedPost {
		return core.SavedPostFromDocument(doc)
	}), nil
}

// ParseTags splits a comma-separated tag string into tokens, stripping
// all whitespace. Empty input yields an empty set.
func ParseTags(tags string) []string {
	stripped := strings.ReplaceAll(tags, " ", "")
	if stripped == "" {
		return []string{}
	}
	return lo.Uniq(lo.Compact(strings.Split(stripped, ",")))
}

func (m *Manager) cleanupFile(ctx context.Context, fileID string) {
	if err := m.Storage.Delete(ctx, fileID); err != nil {
		m.Logger.Warn("cleaning up media file", "fileId", fileID, "error", err)
	}
}

func (m *Manager) publish(ctx context.Context, eventType, actorID, subjectID string) {
	if m.Activity == nil {
		return
	}
	err := m.Activity.Publish(ctx, core.ActivityEvent{
		Type:      eventType,
		ActorID:   actorID,
		SubjectID: subjectID,
		At:        time.Now(),
	})
	if err != nil {
		m.Logger.Warn("publishing activity event", "type", eventType, "error", err)
	}
}
