package chatv1

// Timestamps are epoch milliseconds. An optional timestamp that is not set is
// sent as null, never as 0.

type Conversation struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	ParticipantIDs []string `json:"participantIds"`
	AdminID        *string  `json:"adminId"`
	AdminIDs       []string `json:"adminIds"`
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Avatar         *string  `json:"avatar,omitempty"`
	LastMessageID  *string  `json:"lastMessageId,omitempty"`
	IsActive       bool     `json:"isActive"`
	IsPinned       bool     `json:"isPinned"`
	IsMuted        bool     `json:"isMuted"`
	IsArchived     bool     `json:"isArchived"`
	MutedUntil     *int64   `json:"mutedUntil"`
	ArchivedUntil  *int64   `json:"archivedUntil"`
	CreatedAt      int64    `json:"createdAt"`
	UpdatedAt      int64    `json:"updatedAt"`
}

type Reaction struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Emoji     string `json:"emoji"`
	Timestamp int64  `json:"timestamp"`
}

type Message struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversationId"`
	SenderID       string         `json:"senderId"`
	ReceiverID     string         `json:"receiverId"`
	Content        string         `json:"content"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	CreatedAt      int64          `json:"createdAt"`
	UpdatedAt      *int64         `json:"updatedAt"`
	FileURL        *string        `json:"fileUrl,omitempty"`
	FileName       *string        `json:"fileName,omitempty"`
	FileSize       *string        `json:"fileSize,omitempty"`
	ReplyTo        *string        `json:"replyTo,omitempty"`
	Reactions      []Reaction     `json:"reactions"`
	ReadBy         []string       `json:"readBy"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type Empty struct{}

type ConversationRequest struct {
	ConversationID string `json:"conversationId"`
}

type ConversationResponse struct {
	Conversation *Conversation `json:"conversation"`
}

type CreateDirectConversationRequest struct {
	OtherUserID string `json:"otherUserId"`
}

type CreateGroupConversationRequest struct {
	Name           string   `json:"name"`
	Description    *string  `json:"description,omitempty"`
	Avatar         *string  `json:"avatar,omitempty"`
	ParticipantIDs []string `json:"participantIds"`
}

type ListConversationsRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type ListConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
	Total         int             `json:"total"`
	Page          int             `json:"page"`
	Limit         int             `json:"limit"`
}

type ParticipantRequest struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// ExpiryRequest mutes or archives a conversation, until the given epoch
// milliseconds or indefinitely when Until is null.
type ExpiryRequest struct {
	ConversationID string `json:"conversationId"`
	Until          *int64 `json:"until"`
}

type SendMessageRequest struct {
	ConversationID string         `json:"conversationId"`
	Content        string         `json:"content"`
	Type           string         `json:"type"`
	FileURL        *string        `json:"fileUrl,omitempty"`
	FileName       *string        `json:"fileName,omitempty"`
	FileSize       *int64         `json:"fileSize,omitempty"`
	ReplyTo        *string        `json:"replyTo,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type MessageRequest struct {
	MessageID string `json:"messageId"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type ListMessagesRequest struct {
	ConversationID string  `json:"conversationId"`
	Cursor         *string `json:"cursor,omitempty"`
	Limit          int     `json:"limit"`
}

type ListMessagesResponse struct {
	Messages   []*Message `json:"messages"`
	NextCursor *string    `json:"nextCursor"`
}

type EditMessageRequest struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

type ReactRequest struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
}
