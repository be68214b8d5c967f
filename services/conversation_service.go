package services

import (
	"chat-service/domain/chat"
	"chat-service/domain/event"
	"chat-service/errors"
	"chat-service/infrastructure/events"
	"chat-service/repositories"
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IConversationService interface {
	CreateDirect(ctx context.Context, cmd chat.CreateDirectCommand) (*chat.Conversation, error)
	CreateGroup(ctx context.Context, cmd chat.CreateGroupCommand) (*chat.Conversation, error)
	Get(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error)
	List(ctx context.Context, cmd chat.ListConversationsCommand) (ConversationList, error)
	AddParticipant(ctx context.Context, cmd chat.ParticipantCommand) (*chat.Conversation, error)
	RemoveParticipant(ctx context.Context, cmd chat.ParticipantCommand) (*chat.Conversation, error)
	AddAdmin(ctx context.Context, cmd chat.ParticipantCommand) (*chat.Conversation, error)
	Pin(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error)
	Unpin(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error)
	Mute(ctx context.Context, cmd chat.ExpiryCommand) (*chat.Conversation, error)
	Unmute(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error)
	Archive(ctx context.Context, cmd chat.ExpiryCommand) (*chat.Conversation, error)
	Unarchive(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error)
	Delete(ctx context.Context, viewerID, conversationID string) error
}

type ConversationList struct {
	Conversations []*chat.Conversation
	Total         int
	Page          int
	Limit         int
}

type ConversationService struct {
	repository       repositories.IConversationRepository
	messages         repositories.IMessageRepository
	publisher        events.Publisher
	log              *slog.Logger
	maxRetries       int
	defaultPageLimit int
	maxPageLimit     int
}

func NewConversationService(
	repository repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	publisher events.Publisher,
	log *slog.Logger,
	maxRetries, defaultPageLimit, maxPageLimit int,
) IConversationService {
	return &ConversationService{
		repository:       repository,
		messages:         messages,
		publisher:        publisher,
		log:              log,
		maxRetries:       maxRetries,
		defaultPageLimit: defaultPageLimit,
		maxPageLimit:     maxPageLimit,
	}
}

// CreateDirect returns the direct conversation between the two users, creating
// it when needed. Concurrent creations converge on the single stored one.
func (s *ConversationService) CreateDirect(ctx context.Context, cmd chat.CreateDirectCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	participants := []string{cmd.ViewerID, cmd.OtherUserID}

	for attempt := 0; ; attempt++ {
		existing, err := s.repository.FindByParticipants(ctx, participants)
		switch {
		case err == nil && existing.IsDirect():
			return existing, nil
		case err != nil && !stdErrors.Is(err, errors.ErrConversationNotFound):
			return nil, err
		}

		conversation, err := chat.NewConversation(chat.ConversationProps{
			ID:             uuid.NewString(),
			Type:           chat.ConversationTypeDirect,
			ParticipantIDs: participants,
		})
		if err != nil {
			return nil, err
		}
		err = s.repository.Save(ctx, conversation)
		if err == nil {
			s.log.Info("Direct conversation created", "conversation_id", conversation.ID(), "user_id", cmd.ViewerID)
			s.publish(ctx, event.ConversationCreatedType, conversation, cmd.ViewerID)
			return conversation, nil
		}
		if !retryable(err) || attempt >= s.maxRetries {
			return nil, err
		}
		s.log.Debug("Direct conversation created concurrently, looking it up again", "user_id", cmd.ViewerID, "attempt", attempt+1)
	}
}

// CreateGroup creates a group whose first admin is its creator.
func (s *ConversationService) CreateGroup(ctx context.Context, cmd chat.CreateGroupCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	conversation, err := chat.NewConversation(chat.ConversationProps{
		ID:             uuid.NewString(),
		Type:           chat.ConversationTypeGroup,
		ParticipantIDs: lo.Uniq(append([]string{cmd.ViewerID}, cmd.ParticipantIDs...)),
		Name:           &cmd.Name,
		Description:    cmd.Description,
		Avatar:         cmd.Avatar,
		AdminIDs:       []string{cmd.ViewerID},
	})
	if err != nil {
		return nil, err
	}
	if err = s.repository.Save(ctx, conversation); err != nil {
		return nil, err
	}
	s.log.Info("Group conversation created", "conversation_id", conversation.ID(), "user_id", cmd.ViewerID)
	s.publish(ctx, event.ConversationCreatedType, conversation, cmd.ViewerID)
	return conversation, nil
}

func (s *ConversationService) Get(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error) {
	conversation, err := s.repository.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(viewerID) {
		return nil, errors.ErrNotParticipant
	}
	return conversation, nil
}

func (s *ConversationService) List(ctx context.Context, cmd chat.ListConversationsCommand) (ConversationList, error) {
	if err := validateCommand(cmd); err != nil {
		return ConversationList{}, err
	}
	page, limit := pagination(cmd.Page, cmd.Limit, s.defaultPageLimit, s.maxPageLimit)
	result, err := s.repository.FindByUserID(ctx, cmd.ViewerID, page, limit)
	if err != nil {
		return ConversationList{}, err
	}
	return ConversationList{
		Conversations: result.Conversations,
		Total:         result.Total,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *ConversationService) AddParticipant(ctx context.Context, cmd chat.ParticipantCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ViewerID, cmd.ConversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		if err := requireGroupAdmin(c, cmd.ViewerID); err != nil {
			return nil, err
		}
		return c.WithParticipantAdded(cmd.UserID), nil
	})
}

// RemoveParticipant lets an admin remove anyone and any participant leave.
func (s *ConversationService) RemoveParticipant(ctx context.Context, cmd chat.ParticipantCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ViewerID, cmd.ConversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		if !c.IsGroup() {
			return nil, errors.ErrForbidden
		}
		if cmd.UserID != cmd.ViewerID && !c.IsAdmin(cmd.ViewerID) {
			return nil, errors.ErrNotAdmin
		}
		return c.WithParticipantRemoved(cmd.UserID)
	})
}

func (s *ConversationService) AddAdmin(ctx context.Context, cmd chat.ParticipantCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ViewerID, cmd.ConversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		if err := requireGroupAdmin(c, cmd.ViewerID); err != nil {
			return nil, err
		}
		if !c.HasParticipant(cmd.UserID) {
			return nil, errors.ErrNotParticipant
		}
		return c.WithAdminAdded(cmd.UserID), nil
	})
}

func (s *ConversationService) Pin(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error) {
	return s.mutate(ctx, viewerID, conversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		return c.PinForUser(viewerID), nil
	})
}

func (s *ConversationService) Unpin(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error) {
	return s.mutate(ctx, viewerID, conversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		return c.UnpinForUser(viewerID), nil
	})
}

func (s *ConversationService) Mute(ctx context.Context, cmd chat.ExpiryCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ViewerID, cmd.ConversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		return c.MuteForUser(cmd.ViewerID, cmd.Until), nil
	})
}

func (s *ConversationService) Unmute(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error) {
	return s.mutate(ctx, viewerID, conversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		return c.UnmuteForUser(viewerID), nil
	})
}

func (s *ConversationService) Archive(ctx context.Context, cmd chat.ExpiryCommand) (*chat.Conversation, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	return s.mutate(ctx, cmd.ViewerID, cmd.ConversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		return c.ArchiveForUser(cmd.ViewerID, cmd.Until), nil
	})
}

func (s *ConversationService) Unarchive(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error) {
	return s.mutate(ctx, viewerID, conversationID, func(c *chat.Conversation) (*chat.Conversation, error) {
		return c.UnarchiveForUser(viewerID), nil
	})
}

// Delete removes a conversation and its messages. Any participant may delete
// a direct conversation, only admins may delete a group.
// Messages are removed once the conversation is gone; a failure there is
// logged, the remaining messages being unreachable anyway.
func (s *ConversationService) Delete(ctx context.Context, viewerID, conversationID string) error {
	conversation, err := s.Get(ctx, viewerID, conversationID)
	if err != nil {
		return err
	}
	if conversation.IsGroup() && !conversation.IsAdmin(viewerID) {
		return errors.ErrNotAdmin
	}
	if err = s.repository.Delete(ctx, conversationID); err != nil {
		return err
	}
	removed, err := s.messages.DeleteByConversation(ctx, conversationID)
	if err != nil {
		s.log.Warn("Unable to delete conversation messages", "conversation_id", conversationID, "error", err)
	}
	s.log.Info("Conversation deleted", "conversation_id", conversationID, "user_id", viewerID, "messages", removed)
	s.publish(ctx, event.ConversationDeletedType, conversation, viewerID)
	return nil
}

// mutate loads the conversation, applies transition and writes the result
// conditionally. A conflicting write triggers a reload, up to maxRetries times.
// A transition returning its input is a no-op: nothing is written nor published.
func (s *ConversationService) mutate(
	ctx context.Context,
	viewerID, conversationID string,
	transition func(*chat.Conversation) (*chat.Conversation, error),
) (*chat.Conversation, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.Get(ctx, viewerID, conversationID)
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

		err = s.repository.Update(ctx, current, next)
		if err == nil {
			// Removed participants are notified too
			participants := lo.Union(current.ParticipantIDs(), next.ParticipantIDs())
			s.publishEvent(ctx, event.NewConversationEvent(event.ConversationUpdatedType, next.ID(), viewerID, participants))
			return next, nil
		}
		if !retryable(err) || attempt >= s.maxRetries {
			return nil, err
		}
		s.log.Debug("Conflicting conversation update, retrying", "conversation_id", conversationID, "attempt", attempt+1)
	}
}

func (s *ConversationService) publish(ctx context.Context, t event.Type, conversation *chat.Conversation, actorID string) {
	s.publishEvent(ctx, event.NewConversationEvent(t, conversation.ID(), actorID, conversation.ParticipantIDs()))
}

// publishEvent never fails the caller, the write is already persisted.
func (s *ConversationService) publishEvent(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("Unable to publish event", "type", e.Type, "conversation_id", e.ConversationID, "error", err)
	}
}

func requireGroupAdmin(c *chat.Conversation, viewerID string) error {
	if !c.IsGroup() {
		return errors.ErrForbidden
	}
	if !c.IsAdmin(viewerID) {
		return errors.ErrNotAdmin
	}
	return nil
}

func retryable(err error) bool {
	return stdErrors.Is(err, errors.ErrConcurrentModification) || stdErrors.Is(err, errors.ErrConversationExists)
}
