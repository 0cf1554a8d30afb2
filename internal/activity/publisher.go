// Package activity fans domain events out to the NATS activity stream.
// Publishing is asynchronous and best-effort: mutations never wait on
// or fail because of the stream.
package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"snapgram/internal/core"
	"snapgram/internal/nats"
	"snapgram/pkg/async"
)

const bufferSize = 64

var errBufferFull = core.ErrActivityBufferFull

type Publisher struct {
	Logger *slog.Logger
	NATS   *nats.NATS

	// Send writes one encoded event to the stream. Defaults to a
	// JetStream publish on the activity subject.
	Send func(ctx context.Context, payload []byte) error

	events chan pips.D[core.ActivityEvent]
	closed atomic.Bool
	handle *async.JobHandle[any]
}

func (p *Publisher) Init(_ context.Context) error {
	p.Logger = p.Logger.With("component", "activity.Publisher")
	p.events = make(chan pips.D[core.ActivityEvent], bufferSize)

	if p.Send == nil {
		p.Send = func(ctx context.Context, payload []byte) error {
			_, err := p.NATS.JS.Publish(ctx, nats.StreamSubject, payload)
			return err
		}
	}

	p.handle = async.Job(func(ctx context.Context) (any, error) {
		for d := range p.pipeline().Run(ctx, p.events) {
			if _, err := d.Unpack(); err != nil {
				p.Logger.Error("activity pipeline", "error", err)
			}
		}
		return nil, nil
	})

	return nil
}

func (p *Publisher) pipeline() *pips.Pipeline[core.ActivityEvent, any] {
	return pips.New[core.ActivityEvent, any]().
		Then(apply.Map(func(_ context.Context, event core.ActivityEvent) ([]byte, error) {
			return json.Marshal(event)
		})).
		Then(apply.Map(func(ctx context.Context, payload []byte) (any, error) {
			// A failed write must not terminate the pipeline, the
			// stream stays best-effort for the events after it.
			if err := p.Send(ctx, payload); err != nil {
				p.Logger.Error("publishing activity event", "error", err)
			}
			return nil, nil
		}))
}

// Publish enqueues the event. A full buffer drops it with an error
// instead of blocking the mutation path.
func (p *Publisher) Publish(_ context.Context, event core.ActivityEvent) error {
	if p.closed.Load() {
		return errBufferFull
	}
	select {
	case p.events <- pips.NewD(event):
		return nil
	default:
		return errBufferFull
	}
}

func (p *Publisher) Shutdown(_ context.Context) error {
	if p.closed.CompareAndSwap(false, true) {
		close(p.events)
	}
	_, err := p.handle.Wait()
	return err
}
