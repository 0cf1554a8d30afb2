package activity

import (
	"context"

	"snapgram/internal/core"
)

// Noop is bound as the publisher when no NATS URL is configured.
type Noop struct{}

func (Noop) Publish(context.Context, core.ActivityEvent) error {
	return nil
}
