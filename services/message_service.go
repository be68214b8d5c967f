package services

import (
	"chat-service/domain/chat"
	"chat-service/domain/event"
	"chat-service/errors"
	"chat-service/infrastructure/events"
	"chat-service/repositories"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Censor rewrites forbidden words before a content is stored.
type Censor interface {
	Censor(text string) (string, []string)
}

type IMessageService interface {
	Send(ctx context.Context, cmd chat.SendMessageCommand) (*chat.Message, error)
	Get(ctx context.Context, viewerID, messageID string) (*chat.Message, error)
	List(ctx context.Context, cmd chat.ListMessagesCommand) ([]*chat.Message, *string, error)
	MarkAsRead(ctx context.Context, viewerID, messageID string) (*chat.Message, error)
	Edit(ctx context.Context, cmd chat.EditMessageCommand) (*chat.Message, error)
	React(ctx context.Context, cmd chat.ReactCommand) (*chat.Message, error)
}

type MessageService struct {
	messages      repositories.IMessageRepository
	conversations repositories.IConversationRepository
	publisher     events.Publisher
	censor        Censor
	log           *slog.Logger
	maxRetries    int
	maxPageLimit  int
}

func NewMessageService(
	messages repositories.IMessageRepository,
	conversations repositories.IConversationRepository,
	publisher events.Publisher,
	censor Censor,
	log *slog.Logger,
	maxRetries, maxPageLimit int,
) IMessageService {
	return &MessageService{
		messages:      messages,
		conversations: conversations,
		publisher:     publisher,
		censor:        censor,
		log:           log,
		maxRetries:    maxRetries,
		maxPageLimit:  maxPageLimit,
	}
}

// Send stores a message then moves the conversation lastMessageId to it.
// The message is kept even when the conversation cannot be touched.
func (s *MessageService) Send(ctx context.Context, cmd chat.SendMessageCommand) (*chat.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	conversation, err := s.participantConversation(ctx, cmd.ViewerID, cmd.ConversationID)
	if err != nil {
		return nil, err
	}
	var receiverID string
	if conversation.IsDirect() {
		receiverID, _ = conversation.GetOtherParticipant(cmd.ViewerID)
	}
	if cmd.ReplyTo != nil {
		parent, err := s.messages.FindByID(ctx, *cmd.ReplyTo)
		if err != nil {
			return nil, err
		}
		if parent.ConversationID() != conversation.ID() {
			return nil, errors.ErrMessageNotFound
		}
	}

	content, matched := s.censor.Censor(cmd.Content)
	if len(matched) > 0 {
		s.log.Debug("Censored message content", "conversation_id", cmd.ConversationID, "user_id", cmd.ViewerID, "words", len(matched))
	}

	message, err := chat.NewMessage(chat.MessageProps{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID(),
		SenderID:       cmd.ViewerID,
		ReceiverID:     receiverID,
		Content:        content,
		Type:           cmd.Type,
		FileURL:        cmd.FileURL,
		FileName:       cmd.FileName,
		FileSize:       cmd.FileSize,
		ReplyTo:        cmd.ReplyTo,
		Metadata:       cmd.Metadata,
	})
	if err != nil {
		return nil, err
	}
	if err = s.messages.Save(ctx, message); err != nil {
		return nil, err
	}

	participants := conversation.ParticipantIDs()
	if err = s.touchConversation(ctx, conversation, message.ID()); err != nil {
		s.log.Warn("Unable to update last message", "conversation_id", conversation.ID(), "message_id", message.ID(), "error", err)
	}
	s.log.Info("Message sent", "conversation_id", conversation.ID(), "message_id", message.ID(), "user_id", cmd.ViewerID)
	s.publish(ctx, event.MessageSentType, message, cmd.ViewerID, participants)
	return message, nil
}

func (s *MessageService) Get(ctx context.Context, viewerID, messageID string) (*chat.Message, error) {
	message, _, err := s.visibleMessage(ctx, viewerID, messageID)
	return message, err
}

// List pages through a conversation newest first. A nil next cursor means the
// history is exhausted.
func (s *MessageService) List(ctx context.Context, cmd chat.ListMessagesCommand) ([]*chat.Message, *string, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, nil, err
	}
	if _, err := s.participantConversation(ctx, cmd.ViewerID, cmd.ConversationID); err != nil {
		return nil, nil, err
	}
	limit := cmd.Limit
	if s.maxPageLimit > 0 && limit > s.maxPageLimit {
		limit = s.maxPageLimit
	}
	return s.messages.FindByConversation(ctx, cmd.ConversationID, cmd.Cursor, limit)
}

// MarkAsRead records viewerID as a reader. The sender reading their own
// message leaves it unchanged.
func (s *MessageService) MarkAsRead(ctx context.Context, viewerID, messageID string) (*chat.Message, error) {
	return s.mutate(ctx, viewerID, messageID, event.MessageReadType, func(m *chat.Message) (*chat.Message, error) {
		if m.SenderID() == viewerID {
			return m, nil
		}
		return m.MarkAsRead(viewerID), nil
	})
}

// Edit replaces the content of a message. Only its sender may edit it.
func (s *MessageService) Edit(ctx context.Context, cmd chat.EditMessageCommand) (*chat.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	content, _ := s.censor.Censor(cmd.Content)
	return s.mutate(ctx, cmd.ViewerID, cmd.MessageID, event.MessageEditedType, func(m *chat.Message) (*chat.Message, error) {
		if m.SenderID() != cmd.ViewerID {
			return nil, errors.ErrForbidden
		}
		return m.EditContent(content)
	})
}

func (s *MessageService) React(ctx context.Context, cmd chat.ReactCommand) (*chat.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ViewerID, cmd.MessageID, event.MessageReactedType, func(m *chat.Message) (*chat.Message, error) {
		return m.AddReaction(chat.Reaction{
			ID:        uuid.NewString(),
			UserID:    cmd.ViewerID,
			Emoji:     cmd.Emoji,
			Timestamp: time.Now().UTC(),
		}), nil
	})
}

// mutate applies transition to the stored message with a compare-and-swap
// write, reloading on conflicts up to maxRetries times.
func (s *MessageService) mutate(
	ctx context.Context,
	viewerID, messageID string,
	t event.Type,
	transition func(*chat.Message) (*chat.Message, error),
) (*chat.Message, error) {
	for attempt := 0; ; attempt++ {
		current, conversation, err := s.visibleMessage(ctx, viewerID, messageID)
		if err != nil {
			return nil, err
		}
		next, err := transition(current)
		if err != nil {
			return nil, err
		}
		if next == current {
			return current, nil
		}

		err = s.messages.Update(ctx, current, next)
		if err == nil {
			s.publish(ctx, t, next, viewerID, conversation.ParticipantIDs())
			return next, nil
		}
		if !retryable(err) || attempt >= s.maxRetries {
			return nil, err
		}
		s.log.Debug("Conflicting message update, retrying", "message_id", messageID, "attempt", attempt+1)
	}
}

// touchConversation records messageID as the latest message of conversation.
func (s *MessageService) touchConversation(ctx context.Context, conversation *chat.Conversation, messageID string) error {
	current := conversation
	for attempt := 0; ; attempt++ {
		err := s.conversations.Update(ctx, current, current.WithLastMessage(messageID))
		if err == nil || !retryable(err) || attempt >= s.maxRetries {
			return err
		}
		if current, err = s.conversations.FindByID(ctx, conversation.ID()); err != nil {
			return err
		}
	}
}

// visibleMessage loads a message along with its conversation, provided the
// viewer takes part in it.
func (s *MessageService) visibleMessage(ctx context.Context, viewerID, messageID string) (*chat.Message, *chat.Conversation, error) {
	message, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, nil, err
	}
	conversation, err := s.participantConversation(ctx, viewerID, message.ConversationID())
	if err != nil {
		return nil, nil, err
	}
	return message, conversation, nil
}

func (s *MessageService) participantConversation(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error) {
	conversation, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(viewerID) {
		return nil, errors.ErrNotParticipant
	}
	return conversation, nil
}

func (s *MessageService) publish(ctx context.Context, t event.Type, message *chat.Message, actorID string, participants []string) {
	e := event.NewMessageEvent(t, message.ConversationID(), message.ID(), actorID, participants)
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("Unable to publish event", "type", t, "message_id", message.ID(), "error", err)
	}
}
