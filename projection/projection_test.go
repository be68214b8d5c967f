package projection

import (
	"chat-service/domain/chat"
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestProjectConversation_ViewerFlags(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := at.Add(24 * time.Hour)

	conversation, err := chat.NewConversation(chat.ConversationProps{
		ID:             "g1",
		Type:           chat.ConversationTypeGroup,
		ParticipantIDs: []string{"A", "B"},
		CreatedAt:      at,
		UpdatedAt:      at,
		Name:           lo.ToPtr("Team"),
		AdminIDs:       []string{"B", "A"},
	})
	req.NoError(err)
	conversation = conversation.PinForUser("A").MuteForUser("A", &until).ArchiveForUser("B", nil)

	forA := ProjectConversation(conversation, "A")
	req.True(forA.IsPinned)
	req.True(forA.IsMuted)
	req.False(forA.IsArchived)
	req.Equal(until.UnixMilli(), *forA.MutedUntil)
	req.Nil(forA.ArchivedUntil)
	req.Equal("B", *forA.AdminID)
	req.Equal("Team", *forA.Name)
	req.Nil(forA.Description)
	req.Equal(at.UnixMilli(), forA.CreatedAt)

	forB := ProjectConversation(conversation, "B")
	req.False(forB.IsPinned)
	req.False(forB.IsMuted)
	req.True(forB.IsArchived)
	req.Nil(forB.MutedUntil)
	req.Nil(forB.ArchivedUntil)
}

func TestProjectConversation_AbsentValuesAreNull(t *testing.T) {
	req := require.New(t)
	conversation, err := chat.NewConversation(chat.ConversationProps{
		ID:             "c1",
		Type:           chat.ConversationTypeDirect,
		ParticipantIDs: []string{"A", "B"},
	})
	req.NoError(err)

	projected := ProjectConversation(conversation.MuteForUser("A", nil), "A")
	req.True(projected.IsMuted)
	req.Nil(projected.MutedUntil)
	req.Nil(projected.AdminID)

	raw, err := json.Marshal(projected)
	req.NoError(err)
	var wire map[string]any
	req.NoError(json.Unmarshal(raw, &wire))
	req.Contains(wire, "mutedUntil")
	req.Nil(wire["mutedUntil"])
	req.Nil(wire["adminId"])
	req.NotContains(wire, "name")
}

func TestProjectMessage(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	message, err := chat.NewMessage(chat.MessageProps{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "A",
		ReceiverID:     "B",
		Type:           chat.MessageTypeFile,
		Timestamp:      at,
		FileURL:        lo.ToPtr("https://cdn.example.com/a.pdf"),
		FileName:       lo.ToPtr("a.pdf"),
		FileSize:       lo.ToPtr(int64(1536)),
	})
	req.NoError(err)
	message = message.
		AddReaction(chat.Reaction{ID: "r1", UserID: "B", Emoji: "👍", Timestamp: at.Add(time.Minute)}).
		AddReaction(chat.Reaction{ID: "r2", UserID: "B", Emoji: "👍", Timestamp: at.Add(2 * time.Minute)})

	projected := ProjectMessage(message)
	req.Equal(at.UnixMilli(), projected.CreatedAt)
	req.Nil(projected.UpdatedAt)
	req.Equal("1536", *projected.FileSize)
	req.Equal("a.pdf", *projected.FileName)
	req.Nil(projected.ReplyTo)
	req.Len(projected.Reactions, 2)
	req.Equal(at.Add(time.Minute).UnixMilli(), projected.Reactions[0].Timestamp)
	req.Equal("r2", projected.Reactions[1].ID)
	req.Equal("sent", projected.Status)

	raw, err := json.Marshal(projected)
	req.NoError(err)
	var wire map[string]any
	req.NoError(json.Unmarshal(raw, &wire))
	req.Contains(wire, "updatedAt")
	req.Nil(wire["updatedAt"])
}

func TestProjectMessage_Edited(t *testing.T) {
	req := require.New(t)
	message, err := chat.NewMessage(chat.MessageProps{
		ID:             "m1",
		ConversationID: "c1",
		SenderID:       "A",
		Content:        "hello",
		Type:           chat.MessageTypeText,
	})
	req.NoError(err)
	edited, err := message.EditContent("hello again")
	req.NoError(err)

	projected := ProjectMessage(edited)
	editedAt, ok := edited.EditedAt()
	req.True(ok)
	req.NotNil(projected.UpdatedAt)
	req.Equal(editedAt.UnixMilli(), *projected.UpdatedAt)
	req.Nil(projected.FileSize)
	req.Empty(projected.Reactions)
}
