// Package appwrite is a thin REST client for the Appwrite backend:
// account sessions, document database, file storage and avatar helpers.
// Only the surface the application consumes is covered.
package appwrite

import (
	"context"
	"fmt"

	"resty.dev/v3"
)

type Client struct {
	client *resty.Client

	endpoint string
	project  string
}

func NewClient(endpoint, project, key string, config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig
	}

	client := resty.NewWithTransportSettings(config.TransportSettings)
	client.SetHeader("X-Appwrite-Project", project)
	if key != "" {
		client.SetHeader("X-Appwrite-Key", key)
	}

	for _, m := range config.RequestMiddlewares {
		client.AddRequestMiddleware(m)
	}
	for _, m := range config.ResponseMiddlewares {
		client.AddResponseMiddleware(m)
	}

	return &Client{
		client:   client,
		endpoint: endpoint,
		project:  project,
	}
}

// SetSession scopes subsequent account calls to a user session secret.
func (c *Client) SetSession(secret string) {
	c.client.SetHeader("X-Appwrite-Session", secret)
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx).SetError(&Error{})
}

// Error is the error envelope Appwrite returns on non-2xx responses.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("appwrite: %s (%d %s)", e.Message, e.Code, e.Type)
}

func unwrap[T any](res *resty.Response, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		if apiErr, ok := res.Error().(*Error); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("appwrite: unexpected status %s", res.Status())
	}
	result, _ := res.Result().(*T)
	return result, nil
}
