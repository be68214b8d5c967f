package workers

import (
	"chat-service/domain/event"
	"chat-service/errors"
	"chat-service/infrastructure/events"
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// EventDispatcher decouples the services from the broker latency.
// Publish only enqueues, Run forwards events to the downstream publisher in
// the order they were accepted. It is safe for concurrent use.
type EventDispatcher struct {
	log          *slog.Logger
	downstream   events.Publisher
	buffer       chan event.Event
	flushTimeout time.Duration
	stopped      atomic.Bool
}

func NewEventDispatcher(log *slog.Logger, downstream events.Publisher, bufferSize int, flushTimeout time.Duration) *EventDispatcher {
	return &EventDispatcher{
		log:          log,
		downstream:   downstream,
		buffer:       make(chan event.Event, bufferSize),
		flushTimeout: flushTimeout,
	}
}

// Publish never blocks, a full buffer drops the event. Events published once
// Run has returned are rejected since nothing would forward them.
func (d *EventDispatcher) Publish(_ context.Context, e event.Event) error {
	if d.stopped.Load() {
		return errors.ErrDispatcherStopped
	}
	select {
	case d.buffer <- e:
		return nil
	default:
		return errors.ErrEventBufferFull
	}
}

func (d *EventDispatcher) Run(ctx context.Context) error {
	for {
		select {
		case e := <-d.buffer:
			d.forward(ctx, e)
		case <-ctx.Done():
			d.stopped.Store(true)
			d.flush(ctx)
			return nil
		}
	}
}

// flush forwards what is still buffered once the service is shutting down.
func (d *EventDispatcher) flush(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.flushTimeout)
	defer cancel()
	for {
		select {
		case e := <-d.buffer:
			if flushCtx.Err() != nil {
				d.log.Warn("Event dropped on shutdown", "type", e.Type, "conversation_id", e.ConversationID)
				continue
			}
			d.forward(flushCtx, e)
		default:
			return
		}
	}
}

func (d *EventDispatcher) forward(ctx context.Context, e event.Event) {
	if err := d.downstream.Publish(ctx, e); err != nil {
		d.log.Warn("Unable to forward event", "type", e.Type, "conversation_id", e.ConversationID, "error", err)
	}
}

func (d *EventDispatcher) Close() error {
	return d.downstream.Close()
}
