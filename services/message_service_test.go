package services

import (
	"chat-service/domain/chat"
	"chat-service/domain/event"
	"chat-service/errors"
	"chat-service/mocks"
	"chat-service/moderation"
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageFixture struct {
	svc           IMessageService
	messages      *mocks.MockIMessageRepository
	conversations *mocks.MockIConversationRepository
	publisher     *mocks.MockPublisher
}

func newMessageFixture(t *testing.T) messageFixture {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	moderator, err := moderation.NewModerator([]string{"spoiler"}, '*', testLogger())
	require.NoError(t, err)
	return messageFixture{
		svc:           NewMessageService(messages, conversations, publisher, moderator, testLogger(), 2, 100),
		messages:      messages,
		conversations: conversations,
		publisher:     publisher,
	}
}

func textMessage(t *testing.T, id, conversationID, senderID string) *chat.Message {
	m, err := chat.NewMessage(chat.MessageProps{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        "hello",
		Type:           chat.MessageTypeText,
		Timestamp:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return m
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a direct message addressed to the peer", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		c := direct(t, "c1", "A", "B")

		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(c, nil)
		f.messages.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.conversations.EXPECT().
			Update(gomock.Any(), c, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, next *chat.Conversation) error {
				last, ok := next.LastMessageID()
				req.True(ok)
				req.NotEmpty(last)
				return nil
			})
		f.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e event.Event) error {
				req.Equal(event.MessageSentType, e.Type)
				req.Equal("c1", e.ConversationID)
				req.NotEmpty(e.MessageID)
				return nil
			})

		m, err := f.svc.Send(ctx, chat.SendMessageCommand{
			ViewerID:       "A",
			ConversationID: "c1",
			Content:        "no spoiler please",
			Type:           chat.MessageTypeText,
		})

		req.NoError(err)
		req.Equal("B", m.ReceiverID())
		req.Equal("A", m.SenderID())
		req.Equal("no ******* please", m.Content())
		req.Equal(chat.MessageStatusSent, m.Status())
	})

	t.Run("should leave the receiver empty in a group", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)

		f.conversations.EXPECT().FindByID(gomock.Any(), "g1").Return(group(t, "g1", []string{"A"}, "A", "B", "C"), nil)
		f.messages.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.conversations.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		m, err := f.svc.Send(ctx, chat.SendMessageCommand{ViewerID: "B", ConversationID: "g1", Content: "hi", Type: chat.MessageTypeText})

		req.NoError(err)
		req.Empty(m.ReceiverID())
	})

	t.Run("should keep the message when the conversation cannot be touched", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		c := direct(t, "c1", "A", "B")

		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(c, nil)
		f.messages.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		f.conversations.EXPECT().Update(gomock.Any(), c, gomock.Any()).Return(errors.ErrConversationNotFound)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		m, err := f.svc.Send(ctx, chat.SendMessageCommand{ViewerID: "A", ConversationID: "c1", Content: "hi", Type: chat.MessageTypeText})

		req.NoError(err)
		req.NotNil(m)
	})

	t.Run("should reload the conversation on conflict", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		stale := direct(t, "c1", "A", "B")
		fresh := stale.PinForUser("B")

		f.messages.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		gomock.InOrder(
			f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(stale, nil),
			f.conversations.EXPECT().Update(gomock.Any(), stale, gomock.Any()).Return(errors.ErrConcurrentModification),
			f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(fresh, nil),
			f.conversations.EXPECT().
				Update(gomock.Any(), fresh, gomock.Any()).
				DoAndReturn(func(_ context.Context, _, next *chat.Conversation) error {
					req.True(next.IsPinnedBy("B"))
					return nil
				}),
		)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Send(ctx, chat.SendMessageCommand{ViewerID: "A", ConversationID: "c1", Content: "hi", Type: chat.MessageTypeText})

		req.NoError(err)
	})

	t.Run("should refuse outsiders", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)

		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)

		_, err := f.svc.Send(ctx, chat.SendMessageCommand{ViewerID: "Z", ConversationID: "c1", Content: "hi", Type: chat.MessageTypeText})

		req.ErrorIs(err, errors.ErrNotParticipant)
	})

	t.Run("should reject a reply to another conversation", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)

		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)
		f.messages.EXPECT().FindByID(gomock.Any(), "m0").Return(textMessage(t, "m0", "elsewhere", "B"), nil)

		_, err := f.svc.Send(ctx, chat.SendMessageCommand{
			ViewerID:       "A",
			ConversationID: "c1",
			Content:        "hi",
			Type:           chat.MessageTypeText,
			ReplyTo:        lo.ToPtr("m0"),
		})

		req.ErrorIs(err, errors.ErrMessageNotFound)
	})

	t.Run("should reject an empty message", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)

		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)

		_, err := f.svc.Send(ctx, chat.SendMessageCommand{ViewerID: "A", ConversationID: "c1", Content: "  ", Type: chat.MessageTypeText})

		req.ErrorIs(err, errors.ErrInvalidAggregate)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)

		_, err := f.svc.Send(ctx, chat.SendMessageCommand{ViewerID: "A", ConversationID: "c1", Content: "hi", Type: "sticker"})

		req.ErrorIs(err, errors.ErrInvalidCommand)
	})
}

func TestMessageService_List(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	cursor := lo.ToPtr("cursor")
	page := []*chat.Message{textMessage(t, "m2", "c1", "A"), textMessage(t, "m1", "c1", "B")}

	f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil).Times(2)
	f.messages.EXPECT().FindByConversation(gomock.Any(), "c1", cursor, 100).Return(page, nil, nil)

	messages, next, err := f.svc.List(context.Background(), chat.ListMessagesCommand{
		ViewerID:       "B",
		ConversationID: "c1",
		Cursor:         cursor,
		Limit:          1000,
	})
	req.NoError(err)
	req.Equal(page, messages)
	req.Nil(next)

	_, _, err = f.svc.List(context.Background(), chat.ListMessagesCommand{ViewerID: "Z", ConversationID: "c1"})
	req.ErrorIs(err, errors.ErrNotParticipant)
}

func TestMessageService_MarkAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("should record the reader", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		m := textMessage(t, "m1", "c1", "A")

		f.messages.EXPECT().FindByID(gomock.Any(), "m1").Return(m, nil)
		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)
		f.messages.EXPECT().Update(gomock.Any(), m, gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		read, err := f.svc.MarkAsRead(ctx, "B", "m1")

		req.NoError(err)
		req.True(read.IsReadBy("B"))
		req.Equal(chat.MessageStatusRead, read.Status())
	})

	t.Run("should not write when already read", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		m := textMessage(t, "m1", "c1", "A").MarkAsRead("B")

		f.messages.EXPECT().FindByID(gomock.Any(), "m1").Return(m, nil)
		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)

		read, err := f.svc.MarkAsRead(ctx, "B", "m1")

		req.NoError(err)
		req.Same(m, read)
	})

	t.Run("should ignore the sender", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		m := textMessage(t, "m1", "c1", "A")

		f.messages.EXPECT().FindByID(gomock.Any(), "m1").Return(m, nil)
		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)

		read, err := f.svc.MarkAsRead(ctx, "A", "m1")

		req.NoError(err)
		req.Same(m, read)
		req.False(read.IsReadBy("A"))
		req.Equal(chat.MessageStatusSent, read.Status())
	})
}

func TestMessageService_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("should let the sender edit", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)
		m := textMessage(t, "m1", "c1", "A")

		f.messages.EXPECT().FindByID(gomock.Any(), "m1").Return(m, nil)
		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)
		f.messages.EXPECT().Update(gomock.Any(), m, gomock.Any()).Return(nil)
		f.publisher.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e event.Event) error {
				req.Equal(event.MessageEditedType, e.Type)
				return nil
			})

		edited, err := f.svc.Edit(ctx, chat.EditMessageCommand{ViewerID: "A", MessageID: "m1", Content: "spoiler alert"})

		req.NoError(err)
		req.Equal("******* alert", edited.Content())
		_, ok := edited.EditedAt()
		req.True(ok)
	})

	t.Run("should refuse anyone but the sender", func(t *testing.T) {
		req := require.New(t)
		f := newMessageFixture(t)

		f.messages.EXPECT().FindByID(gomock.Any(), "m1").Return(textMessage(t, "m1", "c1", "A"), nil)
		f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)

		_, err := f.svc.Edit(ctx, chat.EditMessageCommand{ViewerID: "B", MessageID: "m1", Content: "hijacked"})

		req.ErrorIs(err, errors.ErrForbidden)
	})
}

func TestMessageService_React(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	m := textMessage(t, "m1", "c1", "A")

	f.messages.EXPECT().FindByID(gomock.Any(), "m1").Return(m, nil)
	f.conversations.EXPECT().FindByID(gomock.Any(), "c1").Return(direct(t, "c1", "A", "B"), nil)
	f.messages.EXPECT().Update(gomock.Any(), m, gomock.Any()).Return(nil)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	reacted, err := f.svc.React(context.Background(), chat.ReactCommand{ViewerID: "B", MessageID: "m1", Emoji: "👍"})

	req.NoError(err)
	req.Len(reacted.Reactions(), 1)
	reaction := reacted.Reactions()[0]
	req.Equal("B", reaction.UserID)
	req.Equal("👍", reaction.Emoji)
	req.NotEmpty(reaction.ID)

	_, err = f.svc.React(context.Background(), chat.ReactCommand{ViewerID: "B", MessageID: "m1"})
	req.ErrorIs(err, errors.ErrInvalidCommand)
}
