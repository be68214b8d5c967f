package repositories

import (
	"chat-service/domain/chat"
	"chat-service/errors"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, id, conversationID string, at time.Time) *chat.Message {
	m, err := chat.NewMessage(chat.MessageProps{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       "A",
		ReceiverID:     "B",
		Content:        "this message will self destruct in 5 seconds",
		Type:           chat.MessageTypeText,
		Timestamp:      at,
	})
	require.NoError(t, err)
	return m
}

func messageIDs(messages []*chat.Message) []string {
	return lo.Map(messages, func(m *chat.Message, _ int) string { return m.ID() })
}

func TestMessageRepository_SaveAndFindByID(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 50)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := message(t, "m1", "c1", at).
		MarkAsRead("B").
		AddReaction(chat.Reaction{ID: "r1", UserID: "B", Emoji: "👍", Timestamp: at})
	req.NoError(repository.Save(ctx, original))

	found, err := repository.FindByID(ctx, "m1")
	req.NoError(err)
	req.Equal(original.ToProps(), found.ToProps())

	_, err = repository.FindByID(ctx, "unknown")
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func TestMessageRepository_FindByConversationNewestFirst(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 2)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		req.NoError(repository.Save(ctx, message(t, fmt.Sprintf("m%d", i), "c1", at.Add(time.Duration(i)*time.Minute))))
	}
	req.NoError(repository.Save(ctx, message(t, "other", "c2", at)))

	first, cursor, err := repository.FindByConversation(ctx, "c1", nil, 0)
	req.NoError(err)
	req.Equal([]string{"m4", "m3"}, messageIDs(first))
	req.NotNil(cursor)

	second, cursor, err := repository.FindByConversation(ctx, "c1", cursor, 0)
	req.NoError(err)
	req.Equal([]string{"m2", "m1"}, messageIDs(second))
	req.NotNil(cursor)

	last, cursor, err := repository.FindByConversation(ctx, "c1", cursor, 0)
	req.NoError(err)
	req.Equal([]string{"m0"}, messageIDs(last))
	req.Nil(cursor)

	all, cursor, err := repository.FindByConversation(ctx, "c1", nil, 10)
	req.NoError(err)
	req.Len(all, 5)
	req.Nil(cursor)

	none, cursor, err := repository.FindByConversation(ctx, "empty", nil, 10)
	req.NoError(err)
	req.Empty(none)
	req.Nil(cursor)
}

func TestMessageRepository_TimelinesDoNotOverlap(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 50)

	// Given a conversation id extending another one with a separator
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req.NoError(repository.Save(ctx, message(t, "m1", "c1", at)))
	req.NoError(repository.Save(ctx, message(t, "m2", "c1:0", at.Add(time.Second))))

	// Then each timeline only holds its own messages
	messages, next, err := repository.FindByConversation(ctx, "c1", nil, 10)
	req.NoError(err)
	req.Nil(next)
	req.Equal([]string{"m1"}, messageIDs(messages))

	messages, _, err = repository.FindByConversation(ctx, "c1:0", nil, 10)
	req.NoError(err)
	req.Equal([]string{"m2"}, messageIDs(messages))
}

func TestMessageRepository_SameTimestamp(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 10)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req.NoError(repository.Save(ctx, message(t, "a", "c1", at)))
	req.NoError(repository.Save(ctx, message(t, "b", "c1", at)))

	messages, _, err := repository.FindByConversation(ctx, "c1", nil, 0)
	req.NoError(err)
	req.Equal([]string{"b", "a"}, messageIDs(messages))
}

func TestMessageRepository_UpdateIsCompareAndSwap(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 10)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	original := message(t, "m1", "c1", at)
	req.NoError(repository.Save(ctx, original))

	read := original.MarkAsRead("B")
	req.NoError(repository.Update(ctx, original, read))

	reacted := original.AddReaction(chat.Reaction{ID: "r1", UserID: "C", Emoji: "🎉", Timestamp: at})
	req.ErrorIs(repository.Update(ctx, original, reacted), errors.ErrConcurrentModification)

	stored, err := repository.FindByID(ctx, "m1")
	req.NoError(err)
	req.True(stored.IsReadBy("B"))
	req.Empty(stored.Reactions())

	req.ErrorIs(repository.Update(ctx, message(t, "ghost", "c1", at), message(t, "ghost", "c1", at)), errors.ErrMessageNotFound)
}

func TestMessageRepository_Delete(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 10)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	req.NoError(repository.Save(ctx, message(t, "m1", "c1", at)))
	req.NoError(repository.Delete(ctx, "m1"))

	_, err := repository.FindByID(ctx, "m1")
	req.ErrorIs(err, errors.ErrMessageNotFound)
	messages, _, err := repository.FindByConversation(ctx, "c1", nil, 0)
	req.NoError(err)
	req.Empty(messages)
	req.ErrorIs(repository.Delete(ctx, "m1"), errors.ErrMessageNotFound)
}

func TestMessageRepository_DeleteByConversation(t *testing.T) {
	req := require.New(t)
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repository := NewMessageRepository(db, testLogger(), 50)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		req.NoError(repository.Save(ctx, message(t, fmt.Sprintf("m%d", i), "c1", at.Add(time.Duration(i)*time.Second))))
	}
	req.NoError(repository.Save(ctx, message(t, "other", "c2", at)))

	removed, err := repository.DeleteByConversation(ctx, "c1")
	req.NoError(err)
	req.Equal(3, removed)

	messages, _, err := repository.FindByConversation(ctx, "c1", nil, 10)
	req.NoError(err)
	req.Empty(messages)
	_, err = repository.FindByID(ctx, "m0")
	req.ErrorIs(err, errors.ErrMessageNotFound)

	// Other conversations are untouched
	kept, err := repository.FindByID(ctx, "other")
	req.NoError(err)
	req.Equal("c2", kept.ConversationID())
}
