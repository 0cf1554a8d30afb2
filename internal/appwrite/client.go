package appwrite

import (
	"context"

	"snapgram/internal/core"
	"snapgram/pkg/appwrite"
)

// Client owns the shared REST client lifecycle.
type Client struct {
	Config *core.Config

	api *appwrite.Client
}

func (c *Client) Init(_ context.Context) error {
	c.api = appwrite.NewClient(
		c.Config.AppwriteEndpoint,
		c.Config.AppwriteProjectID,
		c.Config.AppwriteAPIKey,
		appwrite.DefaultConfig,
	)
	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.api.Close()
}
