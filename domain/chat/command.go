package chat

import "time"

// Commands carry caller intent from the transport to the services.
// Field rules are checked with validator tags before any aggregate is loaded.

type CreateDirectCommand struct {
	ViewerID    string `validate:"required"`
	OtherUserID string `validate:"required,nefield=ViewerID"`
}

type CreateGroupCommand struct {
	ViewerID       string   `validate:"required"`
	Name           string   `validate:"required,max=128"`
	Description    *string  `validate:"omitempty,max=1024"`
	Avatar         *string  `validate:"omitempty,url"`
	ParticipantIDs []string `validate:"dive,required"`
}

// ExpiryCommand mutes or archives a conversation for the viewer. A nil Until
// never expires.
type ExpiryCommand struct {
	ViewerID       string `validate:"required"`
	ConversationID string `validate:"required"`
	Until          *time.Time
}

type ParticipantCommand struct {
	ViewerID       string `validate:"required"`
	ConversationID string `validate:"required"`
	UserID         string `validate:"required"`
}

type ListConversationsCommand struct {
	ViewerID string `validate:"required"`
	Page     int    `validate:"min=0"`
	Limit    int    `validate:"min=0"`
}

type SendMessageCommand struct {
	ViewerID       string      `validate:"required"`
	ConversationID string      `validate:"required"`
	Content        string      `validate:"max=4096"`
	Type           MessageType `validate:"required,oneof=text voice file image"`
	FileURL        *string     `validate:"omitempty,url"`
	FileName       *string     `validate:"omitempty,max=255"`
	FileSize       *int64      `validate:"omitempty,min=0"`
	ReplyTo        *string
	Metadata       map[string]any
}

type ListMessagesCommand struct {
	ViewerID       string `validate:"required"`
	ConversationID string `validate:"required"`
	Cursor         *string
	Limit          int `validate:"min=0"`
}

type EditMessageCommand struct {
	ViewerID  string `validate:"required"`
	MessageID string `validate:"required"`
	Content   string `validate:"max=4096"`
}

type ReactCommand struct {
	ViewerID  string `validate:"required"`
	MessageID string `validate:"required"`
	Emoji     string `validate:"required,max=32"`
}
