package core

import (
	"context"

	"github.com/kelseyhightower/envconfig"
)

// Config holds environment-sourced settings: backend credentials and
// connection strings. Command-line settings live in internal/config.
type Config struct {
	// Appwrite
	AppwriteEndpoint   string `envconfig:"APPWRITE_ENDPOINT"`
	AppwriteProjectID  string `envconfig:"APPWRITE_PROJECT_ID"`
	AppwriteAPIKey     string `envconfig:"APPWRITE_API_KEY"`
	AppwriteDatabaseID string `envconfig:"APPWRITE_DATABASE_ID"`
	AppwriteBucketID   string `envconfig:"APPWRITE_BUCKET_ID"`

	// Postgres, self-hosted document store.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Local file storage root, self-hosted mode.
	StorageDir string `envconfig:"STORAGE_DIR"`

	// Base URL clients reach this service at, used to build /view links
	// for locally stored files and redirect URLs in auth emails.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`
}

func (c *Config) Init(_ context.Context) error {
	err := envconfig.Process("snapgram", c)
	return err
}
