package services

import (
	"chat-service/domain/chat"
	"chat-service/domain/event"
	"chat-service/errors"
	"chat-service/mocks"
	"chat-service/repositories"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type conversationFixture struct {
	svc        IConversationService
	repository *mocks.MockIConversationRepository
	messages   *mocks.MockIMessageRepository
	publisher  *mocks.MockPublisher
}

func newConversationFixture(t *testing.T) conversationFixture {
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	return conversationFixture{
		svc:        NewConversationService(repository, messages, publisher, testLogger(), 2, 20, 100),
		repository: repository,
		messages:   messages,
		publisher:  publisher,
	}
}

func group(t *testing.T, id string, admins []string, participants ...string) *chat.Conversation {
	c, err := chat.NewConversation(chat.ConversationProps{
		ID:             id,
		Type:           chat.ConversationTypeGroup,
		ParticipantIDs: participants,
		Name:           lo.ToPtr("Team"),
		AdminIDs:       admins,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return c
}

func direct(t *testing.T, id string, participants ...string) *chat.Conversation {
	c, err := chat.NewConversation(chat.ConversationProps{
		ID:             id,
		Type:           chat.ConversationTypeDirect,
		ParticipantIDs: participants,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return c
}

func TestConversationService_CreateDirect(t *testing.T) {
	ctx := context.Background()

	t.Run("should create the conversation when none exists", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().
			FindByParticipants(gomock.Any(), []string{"A", "B"}).
			Return(nil, errors.ErrConversationNotFound)
		f.repository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e event.Event) error {
				req.Equal(event.ConversationCreatedType, e.Type)
				req.Equal("A", e.ActorID)
				req.ElementsMatch([]string{"A", "B"}, e.ParticipantIDs)
				return nil
			})

		c, err := f.svc.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "A", OtherUserID: "B"})

		req.NoError(err)
		req.True(c.IsDirect())
		req.NotEmpty(c.ID())
		req.Equal([]string{"A", "B"}, c.ParticipantIDs())
		req.Empty(c.AdminIDs())
	})

	t.Run("should return the existing direct conversation", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		existing := direct(t, "c1", "B", "A")

		f.repository.EXPECT().FindByParticipants(gomock.Any(), gomock.Any()).Return(existing, nil)
		f.repository.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

		c, err := f.svc.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "A", OtherUserID: "B"})

		req.NoError(err)
		req.Same(existing, c)
	})

	t.Run("should not reuse a group with the same members", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByParticipants(gomock.Any(), gomock.Any()).Return(group(t, "g1", nil, "A", "B"), nil)
		f.repository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		c, err := f.svc.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "A", OtherUserID: "B"})

		req.NoError(err)
		req.True(c.IsDirect())
		req.NotEqual("g1", c.ID())
	})

	t.Run("should converge on the conversation created concurrently", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		winner := direct(t, "c1", "B", "A")

		gomock.InOrder(
			f.repository.EXPECT().FindByParticipants(gomock.Any(), gomock.Any()).Return(nil, errors.ErrConversationNotFound),
			f.repository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.ErrConversationExists),
			f.repository.EXPECT().FindByParticipants(gomock.Any(), gomock.Any()).Return(winner, nil),
		)

		c, err := f.svc.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "A", OtherUserID: "B"})

		req.NoError(err)
		req.Same(winner, c)
	})

	t.Run("should reject a conversation with oneself", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		_, err := f.svc.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "A", OtherUserID: "A"})

		req.ErrorIs(err, errors.ErrInvalidCommand)
	})

	t.Run("should surface storage failures", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		storageErr := fmt.Errorf("disk full")

		f.repository.EXPECT().FindByParticipants(gomock.Any(), gomock.Any()).Return(nil, storageErr)

		_, err := f.svc.CreateDirect(ctx, chat.CreateDirectCommand{ViewerID: "A", OtherUserID: "B"})

		req.ErrorIs(err, storageErr)
	})
}

func TestConversationService_CreateGroup(t *testing.T) {
	req := require.New(t)
	f := newConversationFixture(t)

	f.repository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(fmt.Errorf("broker down"))

	c, err := f.svc.CreateGroup(context.Background(), chat.CreateGroupCommand{
		ViewerID:       "A",
		Name:           "  Team  ",
		ParticipantIDs: []string{"B", "A", "C"},
	})

	req.NoError(err)
	req.True(c.IsGroup())
	req.Equal([]string{"A", "B", "C"}, c.ParticipantIDs())
	req.Equal([]string{"A"}, c.AdminIDs())
	name, ok := c.Name()
	req.True(ok)
	req.Equal("Team", name)

	_, err = f.svc.CreateGroup(context.Background(), chat.CreateGroupCommand{ViewerID: "A"})
	req.ErrorIs(err, errors.ErrInvalidCommand)
}

func TestConversationService_Get(t *testing.T) {
	req := require.New(t)
	f := newConversationFixture(t)
	c := group(t, "g1", []string{"A"}, "A", "B")

	f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil).Times(2)

	found, err := f.svc.Get(context.Background(), "B", "g1")
	req.NoError(err)
	req.Same(c, found)

	_, err = f.svc.Get(context.Background(), "Z", "g1")
	req.ErrorIs(err, errors.ErrNotParticipant)
}

func TestConversationService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply the default limit and first page", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", nil, "A")

		f.repository.EXPECT().
			FindByUserID(gomock.Any(), "A", 1, 20).
			Return(repositories.ConversationPage{Conversations: []*chat.Conversation{c}, Total: 1}, nil)

		list, err := f.svc.List(ctx, chat.ListConversationsCommand{ViewerID: "A"})

		req.NoError(err)
		req.Equal(1, list.Total)
		req.Equal(1, list.Page)
		req.Equal(20, list.Limit)
		req.Len(list.Conversations, 1)
	})

	t.Run("should cap the limit", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().
			FindByUserID(gomock.Any(), "A", 3, 100).
			Return(repositories.ConversationPage{}, nil)

		list, err := f.svc.List(ctx, chat.ListConversationsCommand{ViewerID: "A", Page: 3, Limit: 5000})

		req.NoError(err)
		req.Equal(100, list.Limit)
		req.Empty(list.Conversations)
	})
}

func TestConversationService_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("should pin for the viewer and publish an update", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", []string{"A"}, "A", "B")

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil)
		f.repository.EXPECT().
			Update(gomock.Any(), c, gomock.Any()).
			DoAndReturn(func(_ context.Context, previous, next *chat.Conversation) error {
				req.True(next.IsPinnedBy("B"))
				req.False(previous.IsPinnedBy("B"))
				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		pinned, err := f.svc.Pin(ctx, "B", "g1")

		req.NoError(err)
		req.True(pinned.IsPinnedBy("B"))
		req.False(pinned.IsPinnedBy("A"))
	})

	t.Run("should not write a no-op", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", []string{"A"}, "A", "B").PinForUser("B")

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil)

		pinned, err := f.svc.Pin(ctx, "B", "g1")

		req.NoError(err)
		req.Same(c, pinned)
	})

	t.Run("should retry after a concurrent modification", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		stale := group(t, "g1", []string{"A"}, "A", "B")
		fresh := stale.PinForUser("A")

		gomock.InOrder(
			f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(stale, nil),
			f.repository.EXPECT().Update(gomock.Any(), stale, gomock.Any()).Return(errors.ErrConcurrentModification),
			f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(fresh, nil),
			f.repository.EXPECT().Update(gomock.Any(), fresh, gomock.Any()).Return(nil),
		)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		until := time.Now().Add(time.Hour)
		muted, err := f.svc.Mute(ctx, chat.ExpiryCommand{ViewerID: "B", ConversationID: "g1", Until: &until})

		req.NoError(err)
		req.True(muted.IsMutedBy("B"))
		req.True(muted.IsPinnedBy("A"))
		expiry, ok := muted.MuteUntilForUser("B")
		req.True(ok)
		req.True(expiry.Equal(until))
	})

	t.Run("should give up after the retry budget", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", []string{"A"}, "A", "B")

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil).Times(3)
		f.repository.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.ErrConcurrentModification).Times(3)

		_, err := f.svc.Archive(ctx, chat.ExpiryCommand{ViewerID: "A", ConversationID: "g1"})

		req.ErrorIs(err, errors.ErrConcurrentModification)
	})

	t.Run("should refuse outsiders", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(group(t, "g1", []string{"A"}, "A", "B"), nil)

		_, err := f.svc.Unmute(ctx, "Z", "g1")

		req.ErrorIs(err, errors.ErrNotParticipant)
	})
}

func TestConversationService_Membership(t *testing.T) {
	ctx := context.Background()

	t.Run("should let an admin add a participant", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", []string{"A"}, "A", "B")

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil)
		f.repository.EXPECT().Update(gomock.Any(), c, gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := f.svc.AddParticipant(ctx, chat.ParticipantCommand{ViewerID: "A", ConversationID: "g1", UserID: "C"})

		req.NoError(err)
		req.Equal([]string{"A", "B", "C"}, updated.ParticipantIDs())
	})

	t.Run("should refuse a non admin", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(group(t, "g1", []string{"A"}, "A", "B"), nil)

		_, err := f.svc.AddParticipant(ctx, chat.ParticipantCommand{ViewerID: "B", ConversationID: "g1", UserID: "C"})

		req.ErrorIs(err, errors.ErrNotAdmin)
	})

	t.Run("should refuse adding to a direct conversation", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)

		_, err := f.svc.AddParticipant(ctx, chat.ParticipantCommand{ViewerID: "A", ConversationID: "c1", UserID: "C"})

		req.ErrorIs(err, errors.ErrForbidden)
	})

	t.Run("should let a participant leave and notify them", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", []string{"A"}, "A", "B").PinForUser("B")

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil)
		f.repository.EXPECT().Update(gomock.Any(), c, gomock.Any()).Return(nil)
		f.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e event.Event) error {
				req.ElementsMatch([]string{"A", "B"}, e.ParticipantIDs)
				return nil
			})

		updated, err := f.svc.RemoveParticipant(ctx, chat.ParticipantCommand{ViewerID: "B", ConversationID: "g1", UserID: "B"})

		req.NoError(err)
		req.Equal([]string{"A"}, updated.ParticipantIDs())
		req.Empty(updated.PinnedBy())
	})

	t.Run("should refuse removing someone else without being admin", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(group(t, "g1", []string{"A"}, "A", "B", "C"), nil)

		_, err := f.svc.RemoveParticipant(ctx, chat.ParticipantCommand{ViewerID: "B", ConversationID: "g1", UserID: "C"})

		req.ErrorIs(err, errors.ErrNotAdmin)
	})

	t.Run("should promote a participant", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)
		c := group(t, "g1", []string{"A"}, "A", "B")

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(c, nil).Times(2)
		f.repository.EXPECT().Update(gomock.Any(), c, gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := f.svc.AddAdmin(ctx, chat.ParticipantCommand{ViewerID: "A", ConversationID: "g1", UserID: "B"})
		req.NoError(err)
		req.Equal([]string{"A", "B"}, updated.AdminIDs())

		_, err = f.svc.AddAdmin(ctx, chat.ParticipantCommand{ViewerID: "A", ConversationID: "g1", UserID: "Z"})
		req.ErrorIs(err, errors.ErrNotParticipant)
	})
}

func TestConversationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("should let any participant delete a direct conversation", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)
		f.repository.EXPECT().Delete(gomock.Any(), "c1").Return(nil)
		f.messages.EXPECT().DeleteByConversation(gomock.Any(), "c1").Return(3, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		req.NoError(f.svc.Delete(ctx, "B", "c1"))
	})

	t.Run("should still succeed when messages cannot be removed", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)
		f.repository.EXPECT().Delete(gomock.Any(), "c1").Return(nil)
		f.messages.EXPECT().DeleteByConversation(gomock.Any(), "c1").Return(0, stdErrors.New("disk full"))
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		req.NoError(f.svc.Delete(ctx, "A", "c1"))
	})

	t.Run("should require an admin for a group", func(t *testing.T) {
		req := require.New(t)
		f := newConversationFixture(t)

		f.repository.EXPECT().FindByID(gomock.Any(), "g1").Return(group(t, "g1", []string{"A"}, "A", "B"), nil)

		req.ErrorIs(f.svc.Delete(ctx, "B", "g1"), errors.ErrNotAdmin)
	})
}
