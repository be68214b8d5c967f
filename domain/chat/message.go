package chat

import (
	"chat-service/errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeVoice MessageType = "voice"
	MessageTypeFile  MessageType = "file"
	MessageTypeImage MessageType = "image"
)

func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeVoice, MessageTypeFile, MessageTypeImage:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageStatusSending   MessageStatus = "sending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusSeen      MessageStatus = "seen"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

func (s MessageStatus) IsValid() bool {
	switch s {
	case MessageStatusSending, MessageStatusSent, MessageStatusSeen, MessageStatusDelivered, MessageStatusRead:
		return true
	}
	return false
}

// Reaction is an emoji a user attached to a message.
type Reaction struct {
	ID        string
	UserID    string
	Emoji     string
	Timestamp time.Time
}

// MessageProps is the primitive field set of a message.
// An empty Status defaults to sent and a zero Timestamp to the construction time.
type MessageProps struct {
	ID             string
	ConversationID string
	SenderID       string
	ReceiverID     string
	Content        string
	Type           MessageType
	Timestamp      time.Time
	Status         MessageStatus
	FileURL        *string
	FileName       *string
	FileSize       *int64
	ReplyTo        *string
	Reactions      []Reaction
	EditedAt       *time.Time
	ReadBy         []string
	Metadata       map[string]any
}

type Message struct {
	id             string
	conversationID string
	senderID       string
	receiverID     string
	content        string
	kind           MessageType
	timestamp      time.Time
	status         MessageStatus
	fileURL        *string
	fileName       *string
	fileSize       *int64
	replyTo        *string
	reactions      []Reaction
	editedAt       *time.Time
	readBy         userSet
	metadata       map[string]any
}

// NewMessage validates props and builds a message.
func NewMessage(props MessageProps) (*Message, error) {
	id := strings.TrimSpace(props.ID)
	if id == "" {
		return nil, errors.NewDomainError("Message ID is required.")
	}
	conversationID := strings.TrimSpace(props.ConversationID)
	if conversationID == "" {
		return nil, errors.NewDomainError("Conversation ID is required.")
	}
	senderID := strings.TrimSpace(props.SenderID)
	if senderID == "" {
		return nil, errors.NewDomainError("Sender ID is required.")
	}
	if strings.TrimSpace(props.Content) == "" && lo.FromPtr(props.FileURL) == "" {
		return nil, errors.NewDomainError("Message content or fileUrl must be provided.")
	}
	if !props.Type.IsValid() {
		return nil, errors.NewDomainError("Invalid message type.")
	}
	status := props.Status
	if status == "" {
		status = MessageStatusSent
	}
	if !status.IsValid() {
		return nil, errors.NewDomainError("Invalid message status.")
	}
	timestamp := props.Timestamp
	if timestamp.IsZero() {
		timestamp = now()
	}

	var editedAt *time.Time
	if props.EditedAt != nil {
		editedAt = lo.ToPtr(*props.EditedAt)
	}
	var fileSize *int64
	if props.FileSize != nil {
		fileSize = lo.ToPtr(*props.FileSize)
	}

	return &Message{
		id:             id,
		conversationID: conversationID,
		senderID:       senderID,
		receiverID:     strings.TrimSpace(props.ReceiverID),
		content:        props.Content,
		kind:           props.Type,
		timestamp:      timestamp,
		status:         status,
		fileURL:        cloneString(props.FileURL),
		fileName:       cloneString(props.FileName),
		fileSize:       fileSize,
		replyTo:        cloneString(props.ReplyTo),
		reactions:      slices.Clone(props.Reactions),
		editedAt:       editedAt,
		readBy:         newUserSet(props.ReadBy),
		metadata:       maps.Clone(props.Metadata),
	}, nil
}

// MessageFromPrimitives rehydrates a stored message with the same validation
// as NewMessage.
func MessageFromPrimitives(props MessageProps) (*Message, error) {
	return NewMessage(props)
}

func (m *Message) ID() string               { return m.id }
func (m *Message) ConversationID() string   { return m.conversationID }
func (m *Message) SenderID() string         { return m.senderID }
func (m *Message) ReceiverID() string       { return m.receiverID }
func (m *Message) Content() string          { return m.content }
func (m *Message) Type() MessageType        { return m.kind }
func (m *Message) Timestamp() time.Time     { return m.timestamp }
func (m *Message) Status() MessageStatus    { return m.status }
func (m *Message) FileURL() (string, bool)  { return optional(m.fileURL) }
func (m *Message) FileName() (string, bool) { return optional(m.fileName) }
func (m *Message) ReplyTo() (string, bool)  { return optional(m.replyTo) }
func (m *Message) Reactions() []Reaction    { return slices.Clone(m.reactions) }
func (m *Message) ReadBy() []string         { return m.readBy.values() }
func (m *Message) Metadata() map[string]any { return maps.Clone(m.metadata) }
func (m *Message) IsReadBy(userID string) bool {
	return m.readBy.has(userID)
}

func (m *Message) FileSize() (int64, bool) {
	if m.fileSize == nil {
		return 0, false
	}
	return *m.fileSize, true
}

func (m *Message) EditedAt() (time.Time, bool) {
	if m.editedAt == nil {
		return time.Time{}, false
	}
	return *m.editedAt, true
}

// MarkAsRead records userID as a reader and moves the status to read.
// readBy only ever grows.
func (m *Message) MarkAsRead(userID string) *Message {
	if m.readBy.has(userID) {
		return m
	}
	next := m.clone()
	next.readBy = m.readBy.with(userID)
	next.status = MessageStatusRead
	return next
}

// EditContent replaces the content and stamps editedAt. Only the latest
// content and edit time are kept.
func (m *Message) EditContent(content string) (*Message, error) {
	if content == m.content {
		return m, nil
	}
	if strings.TrimSpace(content) == "" && lo.FromPtr(m.fileURL) == "" {
		return nil, errors.NewDomainError("Message content or fileUrl must be provided.")
	}
	next := m.clone()
	next.content = content
	next.editedAt = lo.ToPtr(now())
	return next, nil
}

// AddReaction appends the reaction. The same user may react with the same
// emoji several times; each reaction is kept.
func (m *Message) AddReaction(reaction Reaction) *Message {
	next := m.clone()
	next.reactions = append(slices.Clone(m.reactions), reaction)
	return next
}

func (m *Message) ToProps() MessageProps {
	var editedAt *time.Time
	if m.editedAt != nil {
		editedAt = lo.ToPtr(*m.editedAt)
	}
	var fileSize *int64
	if m.fileSize != nil {
		fileSize = lo.ToPtr(*m.fileSize)
	}
	return MessageProps{
		ID:             m.id,
		ConversationID: m.conversationID,
		SenderID:       m.senderID,
		ReceiverID:     m.receiverID,
		Content:        m.content,
		Type:           m.kind,
		Timestamp:      m.timestamp,
		Status:         m.status,
		FileURL:        cloneString(m.fileURL),
		FileName:       cloneString(m.fileName),
		FileSize:       fileSize,
		ReplyTo:        cloneString(m.replyTo),
		Reactions:      slices.Clone(m.reactions),
		EditedAt:       editedAt,
		ReadBy:         m.readBy.values(),
		Metadata:       maps.Clone(m.metadata),
	}
}

func (m *Message) clone() *Message {
	next := *m
	return &next
}
