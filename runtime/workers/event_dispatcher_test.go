package workers

import (
	"chat-service/domain/event"
	"chat-service/errors"
	"chat-service/mocks"
	"context"
	stdErrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventDispatcher_ForwardsInOrder(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctrl := gomock.NewController(t)
	downstream := mocks.NewMockPublisher(ctrl)

	dispatcher := NewEventDispatcher(log, downstream, 10, time.Second)
	first := event.NewConversationEvent(event.ConversationCreatedType, "c1", "alice", []string{"alice", "bob"})
	second := event.NewMessageEvent(event.MessageSentType, "c1", "m1", "alice", []string{"alice", "bob"})

	done := make(chan struct{})
	var received []event.Event
	downstream.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			received = append(received, e)
			if len(received) == 2 {
				close(done)
			}
			return nil
		}).
		Times(2)

	// Given two events accepted before the worker runs
	req.NoError(dispatcher.Publish(context.Background(), first))
	req.NoError(dispatcher.Publish(context.Background(), second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = dispatcher.Run(ctx) }()

	// Then they reach the downstream publisher in order
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Events were not forwarded in time")
	}
	req.Equal(first.ID, received[0].ID)
	req.Equal(second.ID, received[1].ID)
}

func TestEventDispatcher_BufferFull(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctrl := gomock.NewController(t)
	downstream := mocks.NewMockPublisher(ctrl)

	dispatcher := NewEventDispatcher(log, downstream, 1, time.Second)
	e := event.NewConversationEvent(event.ConversationUpdatedType, "c1", "alice", []string{"alice"})

	// Given a buffer of one and no running worker
	req.NoError(dispatcher.Publish(context.Background(), e))

	// Then the next event is rejected without blocking
	err := dispatcher.Publish(context.Background(), e)
	req.ErrorIs(err, errors.ErrEventBufferFull)
}

func TestEventDispatcher_DownstreamFailureKeepsRunning(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctrl := gomock.NewController(t)
	downstream := mocks.NewMockPublisher(ctrl)

	dispatcher := NewEventDispatcher(log, downstream, 10, time.Second)
	done := make(chan struct{})
	gomock.InOrder(
		downstream.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(stdErrors.New("broker down")),
		downstream.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ event.Event) error {
				close(done)
				return nil
			}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = dispatcher.Run(ctx) }()

	// When the first forward fails
	e := event.NewConversationEvent(event.ConversationUpdatedType, "c1", "alice", []string{"alice"})
	req.NoError(dispatcher.Publish(context.Background(), e))
	req.NoError(dispatcher.Publish(context.Background(), e))

	// Then the following event is still forwarded
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Dispatcher stopped after a downstream failure")
	}
}

func TestEventDispatcher_FlushOnShutdown(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctrl := gomock.NewController(t)
	downstream := mocks.NewMockPublisher(ctrl)

	dispatcher := NewEventDispatcher(log, downstream, 10, time.Second)
	for i := 0; i < 3; i++ {
		e := event.NewConversationEvent(event.ConversationUpdatedType, "c1", "alice", []string{"alice"})
		req.NoError(dispatcher.Publish(context.Background(), e))
	}

	// Given three events still buffered
	downstream.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// When the worker runs with an already canceled context
	// Then every buffered event is still forwarded
	req.NoError(dispatcher.Run(ctx))
}

func TestEventDispatcher_RejectsAfterShutdown(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	ctrl := gomock.NewController(t)
	downstream := mocks.NewMockPublisher(ctrl)

	dispatcher := NewEventDispatcher(log, downstream, 10, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.NoError(dispatcher.Run(ctx))

	// When an event arrives after the worker returned
	e := event.NewConversationEvent(event.ConversationUpdatedType, "c1", "alice", []string{"alice"})
	err := dispatcher.Publish(context.Background(), e)

	// Then the caller is told instead of the event vanishing
	req.ErrorIs(err, errors.ErrDispatcherStopped)
}
