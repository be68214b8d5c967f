package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ConversationCreatedType Type = "CONVERSATION_CREATED"
	ConversationUpdatedType Type = "CONVERSATION_UPDATED"
	ConversationDeletedType Type = "CONVERSATION_DELETED"
	MessageSentType         Type = "MESSAGE_SENT"
	MessageEditedType       Type = "MESSAGE_EDITED"
	MessageReadType         Type = "MESSAGE_READ"
	MessageReactedType      Type = "MESSAGE_REACTED"
)

// Event is emitted by the services once a write has been persisted.
// Consumers fan it out to ParticipantIDs.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Type           Type      `json:"type"`
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId,omitempty"`
	ActorID        string    `json:"actorId"`
	ParticipantIDs []string  `json:"participantIds"`
	At             time.Time `json:"at"`
}

func NewConversationEvent(t Type, conversationID, actorID string, participantIDs []string) Event {
	return Event{
		ID:             uuid.New(),
		Type:           t,
		ConversationID: conversationID,
		ActorID:        actorID,
		ParticipantIDs: participantIDs,
		At:             time.Now().UTC(),
	}
}

func NewMessageEvent(t Type, conversationID, messageID, actorID string, participantIDs []string) Event {
	e := NewConversationEvent(t, conversationID, actorID, participantIDs)
	e.MessageID = messageID
	return e
}

// Key partitions events by conversation so they are consumed in order.
func (e Event) Key() string {
	return e.ConversationID
}
