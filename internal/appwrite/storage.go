package appwrite

import (
	"context"
	"io"

	"snapgram/internal/core"
)

// Storage implements core.FileStorage on an Appwrite bucket.
type Storage struct {
	Config *core.Config
	Client *Client
}

func (s *Storage) Upload(ctx context.Context, filename string, r io.Reader) (*core.File, error) {
	file, err := s.Client.api.CreateFile(ctx, s.Config.AppwriteBucketID, core.NewID(), filename, r)
	if err != nil {
		return nil, err
	}
	return &core.File{ID: file.ID, Name: file.Name}, nil
}

func (s *Storage) ViewURL(fileID string) string {
	return s.Client.api.GetFileView(s.Config.AppwriteBucketID, fileID)
}

func (s *Storage) Delete(ctx context.Context, fileID string) error {
	return s.Client.api.DeleteFile(ctx, s.Config.AppwriteBucketID, fileID)
}

// Avatars implements core.AvatarProvider.
type Avatars struct {
	Client *Client
}

func (a *Avatars) InitialsURL(name string) string {
	return a.Client.api.GetInitialsURL(name)
}
