package core

import (
	"context"
	"io"
)

// DocumentStore is the document database boundary. Implementations:
// the Appwrite REST client, the self-hosted postgres store, and the
// in-memory store used by tests.
type DocumentStore interface {
	CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*Document, error)
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*Document, error)
	DeleteDocument(ctx context.Context, collection, id string) error
	ListDocuments(ctx context.Context, collection string, queries ...Query) (*DocumentList, error)
}

type Account struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

type AccountSession struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
}

// AccountProvider is the account/session boundary.
type AccountProvider interface {
	CreateAccount(ctx context.Context, email, password, name string) (*Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (*AccountSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetAccount(ctx context.Context) (*Account, error)
	CreateVerification(ctx context.Context, redirectURL string) error
	ConfirmVerification(ctx context.Context, userID, secret string) error
	CreateRecovery(ctx context.Context, email, redirectURL string) error
	ConfirmRecovery(ctx context.Context, userID, secret, password string) error
}

type File struct {
	ID   string
	Name string
}

// FileStorage is the binary file boundary.
type FileStorage interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*File, error)
	ViewURL(fileID string) string
	Delete(ctx context.Context, fileID string) error
}

// AvatarProvider produces a default avatar for new accounts.
type AvatarProvider interface {
	InitialsURL(name string) string
}

// ActivityPublisher receives domain events after successful mutations.
// Publishing is best-effort: modules log and continue on error.
type ActivityPublisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
}

// Migrator manages the self-hosted document store schema.
type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}
