// Package projection maps aggregates to their wire shape.
// Viewer-relative flags are resolved here and timestamps become epoch milliseconds.
package projection

import (
	"chat-service/api/chatv1"
	"chat-service/domain/chat"
	"time"

	"github.com/samber/lo"
)

// ProjectConversation renders conversation as seen by viewerID.
func ProjectConversation(conversation *chat.Conversation, viewerID string) *chatv1.Conversation {
	admins := conversation.AdminIDs()
	var adminID *string
	if len(admins) > 0 {
		adminID = &admins[0]
	}
	return &chatv1.Conversation{
		ID:             conversation.ID(),
		Type:           string(conversation.Type()),
		ParticipantIDs: conversation.ParticipantIDs(),
		AdminID:        adminID,
		AdminIDs:       admins,
		Name:           optionalString(conversation.Name()),
		Description:    optionalString(conversation.Description()),
		Avatar:         optionalString(conversation.Avatar()),
		LastMessageID:  optionalString(conversation.LastMessageID()),
		IsActive:       conversation.IsActive(),
		IsPinned:       conversation.IsPinnedBy(viewerID),
		IsMuted:        conversation.IsMutedBy(viewerID),
		IsArchived:     conversation.IsArchivedBy(viewerID),
		MutedUntil:     optionalMillis(conversation.MuteUntilForUser(viewerID)),
		ArchivedUntil:  optionalMillis(conversation.ArchiveUntilForUser(viewerID)),
		CreatedAt:      conversation.CreatedAt().UnixMilli(),
		UpdatedAt:      conversation.UpdatedAt().UnixMilli(),
	}
}

func ProjectConversations(conversations []*chat.Conversation, viewerID string) []*chatv1.Conversation {
	return lo.Map(conversations, func(c *chat.Conversation, _ int) *chatv1.Conversation {
		return ProjectConversation(c, viewerID)
	})
}

// optionalMillis keeps an unset time as nil instead of turning it into the epoch.
func optionalMillis(t time.Time, ok bool) *int64 {
	if !ok {
		return nil
	}
	return lo.ToPtr(t.UnixMilli())
}

func optionalString(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}
