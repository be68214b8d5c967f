package projection

import (
	"chat-service/api/chatv1"
	"chat-service/domain/chat"
	"strconv"

	"github.com/samber/lo"
)

// ProjectMessage renders a message. updatedAt comes from the last edit and
// stays null for a message that was never edited.
func ProjectMessage(message *chat.Message) *chatv1.Message {
	var fileSize *string
	if size, ok := message.FileSize(); ok {
		fileSize = lo.ToPtr(strconv.FormatInt(size, 10))
	}
	return &chatv1.Message{
		ID:             message.ID(),
		ConversationID: message.ConversationID(),
		SenderID:       message.SenderID(),
		ReceiverID:     message.ReceiverID(),
		Content:        message.Content(),
		Type:           string(message.Type()),
		Status:         string(message.Status()),
		CreatedAt:      message.Timestamp().UnixMilli(),
		UpdatedAt:      optionalMillis(message.EditedAt()),
		FileURL:        optionalString(message.FileURL()),
		FileName:       optionalString(message.FileName()),
		FileSize:       fileSize,
		ReplyTo:        optionalString(message.ReplyTo()),
		Reactions: lo.Map(message.Reactions(), func(r chat.Reaction, _ int) chatv1.Reaction {
			return chatv1.Reaction{
				ID:        r.ID,
				UserID:    r.UserID,
				Emoji:     r.Emoji,
				Timestamp: r.Timestamp.UnixMilli(),
			}
		}),
		ReadBy:   message.ReadBy(),
		Metadata: message.Metadata(),
	}
}

func ProjectMessages(messages []*chat.Message) []*chatv1.Message {
	return lo.Map(messages, func(m *chat.Message, _ int) *chatv1.Message {
		return ProjectMessage(m)
	})
}
