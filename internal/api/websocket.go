package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	libnats "github.com/nats-io/nats.go"

	"snapgram/internal/nats"
)

var errActivityDisabled = errors.New("activity stream is not enabled")

// ActivityFeed streams activity events to websocket clients. Each
// connection gets its own NATS subscription so clients never see
// partial fan-out.
type ActivityFeed struct {
	Logger *slog.Logger
	NATS   *nats.NATS

	upgrader websocket.Upgrader
}

func (f *ActivityFeed) Init(_ context.Context) error {
	f.Logger = f.Logger.With("component", "api.ActivityFeed")
	f.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return nil
}

func (f *ActivityFeed) Handle(w http.ResponseWriter, r *http.Request) {
	if !f.NATS.Enabled() {
		writeError(w, http.StatusServiceUnavailable, errActivityDisabled)
		return
	}

	// The upgrader writes its own handshake response.
	w.Header().Del("Content-Type")

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.Logger.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close() //nolint:errcheck

	events := make(chan []byte, 16)
	sub, err := f.NATS.JS.Conn().Subscribe(nats.StreamSubject, func(msg *libnats.Msg) {
		select {
		case events <- msg.Data:
		default:
			// Slow clients drop events instead of blocking the subscription.
		}
	})
	if err != nil {
		f.Logger.Error("Activity subscription failed", "error", err)
		return
	}
	defer sub.Unsubscribe() //nolint:errcheck

	closed := make(chan struct{})

	// The read loop only detects disconnects, clients do not send data.
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case payload := <-events:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
