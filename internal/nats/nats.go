package nats

import (
	"context"
	"log/slog"
	"time"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"snapgram/internal/config"
)

const (
	appName = "snapgram"

	// StreamSubject carries activity events published on mutations.
	StreamSubject = appName + ".activity"
)

type NATS struct {
	Logger *slog.Logger
	Config *config.Config

	JS jetstream.JetStream
}

// Enabled reports whether a NATS server is configured at all.
func (n *NATS) Enabled() bool {
	return n.JS != nil
}

func (n *NATS) Init(ctx context.Context) error {
	if n.Config.NATSURL == "" {
		return nil
	}

	nc, err := libnats.Connect(n.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}

	n.JS = js

	if n.Config.NATSInit {
		if err := n.initNATS(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (n *NATS) HealthCheck(context.Context) error {
	if !n.Enabled() {
		return nil
	}
	_, err := n.JS.Conn().RTT()
	return err
}

func (n *NATS) Shutdown(context.Context) error {
	if !n.Enabled() {
		return nil
	}
	return n.JS.Conn().Drain()
}

func (n *NATS) initNATS(ctx context.Context) error {
	n.Logger.Info("Initializing NATS")
	_, err := n.JS.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     appName,
		Subjects: []string{appName + ".*"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return err
	}
	n.Logger.Info("Stream created or updated", "name", appName)

	return nil
}
