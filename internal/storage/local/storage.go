// Package local stores uploaded media on disk for self-hosted mode.
// Files are served back by the API server under /files/{id}/view.
package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"snapgram/internal/core"
)

type Storage struct {
	Config *core.Config

	root string
}

func (s *Storage) Init(_ context.Context) error {
	s.root = s.Config.StorageDir
	if s.root == "" {
		s.root = "storage"
	}
	return os.MkdirAll(s.root, 0o755)
}

func (s *Storage) Upload(_ context.Context, filename string, r io.Reader) (*core.File, error) {
	id := core.NewID()
	ext := filepath.Ext(filename)

	f, err := os.Create(filepath.Join(s.root, id+ext))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	return &core.File{ID: id + ext, Name: filename}, nil
}

func (s *Storage) ViewURL(fileID string) string {
	return strings.TrimSuffix(s.Config.PublicBaseURL, "/") + "/files/" + fileID + "/view"
}

func (s *Storage) Delete(_ context.Context, fileID string) error {
	// Refuse anything that could escape the storage root.
	if fileID != filepath.Base(fileID) {
		return core.ErrNotFound
	}

	err := os.Remove(filepath.Join(s.root, fileID))
	if os.IsNotExist(err) {
		return core.ErrNotFound
	}
	return err
}

// Open resolves a stored file for serving.
func (s *Storage) Open(fileID string) (io.ReadCloser, error) {
	if fileID != filepath.Base(fileID) {
		return nil, core.ErrNotFound
	}
	return os.Open(filepath.Join(s.root, fileID))
}

// InitialsAvatars builds avatar URLs served by a public initials
// generator, used when no Appwrite avatars endpoint is available.
type InitialsAvatars struct{}

func (InitialsAvatars) InitialsURL(name string) string {
	initials := ""
	for _, part := range strings.Fields(name) {
		initials += strings.ToUpper(string([]rune(part)[0]))
		if len(initials) == 2 {
			break
		}
	}
	return "https://ui-avatars.com/api/?name=" + strings.ReplaceAll(initials, " ", "+")
}
