// Package profiles is the user directory: listing, lookup and profile
// updates with the same media compensation as the post lifecycle.
package profiles

import (
	"context"
	"io"
	"log/slog"

	"github.com/samber/lo"

	"snapgram/internal/core"
	"snapgram/internal/feed"
)

type UpdateUser struct {
	UserID   string
	Name     string
	Bio      string
	ImageURL string
	ImageID  string

	// Nil File keeps the current avatar.
	FileName string
	File     io.Reader
}

type Service struct {
	Logger  *slog.Logger
	Docs    core.DocumentStore
	Storage core.FileStorage
}

func (s *Service) Init(_ context.Context) error {
	s.Logger = s.Logger.With("component", "profiles.Service")
	return nil
}

// List returns users newest first, optionally limited.
func (s *Service) List(ctx context.Context, limit int) ([]core.User, error) {
	queries := []core.Query{core.OrderDesc("$createdAt")}
	if limit > 0 {
		queries = append(queries, core.Limit(limit))
	}

	list, err := s.Docs.ListDocuments(ctx, core.CollectionUsers, queries...)
	if err != nil {
		return nil, err
	}

	return lo.Map(list.Documents, func(doc core.Document, _ int) core.User {
		return core.UserFromDocument(doc)
	}), nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (*core.User, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}

	doc, err := s.Docs.GetDocument(ctx, core.CollectionUsers, userID)
	if err != nil {
		return nil, err
	}

	user := core.UserFromDocument(*doc)
	return &user, nil
}

// Update persists name, bio and avatar. A new avatar file is uploaded
// first; if the document update then fails the new upload is removed
// and the old avatar stays. Deleting the replaced avatar afterwards is
// best-effort.
func (s *Service) Update(ctx context.Context, user UpdateUser) (*core.User, error) {
	if user.UserID == "" {
		return nil, core.ErrEmptyUserID
	}

	imageURL := user.ImageURL
	newImageID := ""
	hasNewFile := user.File != nil

	if hasNewFile {
		uploaded, err := s.Storage.Upload(ctx, user.FileName, user.File)
		if err != nil {
			return nil, err
		}
		imageURL = feed.NormalizeMediaURL(s.Storage.ViewURL(uploaded.ID))
		newImageID = uploaded.ID
	}

	data := map[string]any{
		"name":     user.Name,
		"bio":      user.Bio,
		"imageUrl": imageURL,
	}
	if newImageID != "" {
		data["imageId"] = newImageID
	}

	doc, err := s.Docs.UpdateDocument(ctx, core.CollectionUsers, user.UserID, data)
	if err != nil {
		if hasNewFile {
			s.cleanupFile(ctx, newImageID)
		}
		return nil, err
	}

	if user.ImageID != "" && hasNewFile {
		s.cleanupFile(ctx, user.ImageID)
	}

	updated := core.UserFromDocument(*doc)
	return &updated, nil
}

func (s *Service) cleanupFile(ctx context.Context, fileID string) {
	if err := s.Storage.Delete(ctx, fileID); err != nil {
		s.Logger.Warn("cleaning up avatar file", "fileId", fileID, "error", err)
	}
}
