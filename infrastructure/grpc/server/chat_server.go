package server

import (
	"chat-service/api/chatv1"
	"chat-service/auth"
	"chat-service/domain/chat"
	"chat-service/errors"
	"chat-service/projection"
	"chat-service/services"
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	chatv1.UnimplementedChatServiceServer
	conversations services.IConversationService
	messages      services.IMessageService
	log           *slog.Logger
}

func NewChatServer(log *slog.Logger, conversations services.IConversationService, messages services.IMessageService) *ChatServer {
	return &ChatServer{conversations: conversations, messages: messages, log: log}
}

func (s *ChatServer) CreateDirectConversation(ctx context.Context, req *chatv1.CreateDirectConversationRequest) (*chatv1.ConversationResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	conversation, err := s.conversations.CreateDirect(ctx, chat.CreateDirectCommand{
		ViewerID:    viewerID,
		OtherUserID: req.OtherUserID,
	})
	return s.conversationResponse(conversation, viewerID, err)
}

func (s *ChatServer) CreateGroupConversation(ctx context.Context, req *chatv1.CreateGroupConversationRequest) (*chatv1.ConversationResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	conversation, err := s.conversations.CreateGroup(ctx, chat.CreateGroupCommand{
		ViewerID:       viewerID,
		Name:           req.Name,
		Description:    req.Description,
		Avatar:         req.Avatar,
		ParticipantIDs: req.ParticipantIDs,
	})
	return s.conversationResponse(conversation, viewerID, err)
}

func (s *ChatServer) GetConversation(ctx context.Context, req *chatv1.ConversationRequest) (*chatv1.ConversationResponse, error) {
	return s.onConversation(ctx, req.ConversationID, s.conversations.Get)
}

func (s *ChatServer) ListConversations(ctx context.Context, req *chatv1.ListConversationsRequest) (*chatv1.ListConversationsResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	list, err := s.conversations.List(ctx, chat.ListConversationsCommand{
		ViewerID: viewerID,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, s.fail("ListConversations", err)
	}
	return &chatv1.ListConversationsResponse{
		Conversations: projection.ProjectConversations(list.Conversations, viewerID),
		Total:         list.Total,
		Page:          list.Page,
		Limit:         list.Limit,
	}, nil
}

func (s *ChatServer) AddParticipant(ctx context.Context, req *chatv1.ParticipantRequest) (*chatv1.ConversationResponse, error) {
	return s.onParticipant(ctx, req, s.conversations.AddParticipant)
}

func (s *ChatServer) RemoveParticipant(ctx context.Context, req *chatv1.ParticipantRequest) (*chatv1.ConversationResponse, error) {
	return s.onParticipant(ctx, req, s.conversations.RemoveParticipant)
}

func (s *ChatServer) AddAdmin(ctx context.Context, req *chatv1.ParticipantRequest) (*chatv1.ConversationResponse, error) {
	return s.onParticipant(ctx, req, s.conversations.AddAdmin)
}

func (s *ChatServer) PinConversation(ctx context.Context, req *chatv1.ConversationRequest) (*chatv1.ConversationResponse, error) {
	return s.onConversation(ctx, req.ConversationID, s.conversations.Pin)
}

func (s *ChatServer) UnpinConversation(ctx context.Context, req *chatv1.ConversationRequest) (*chatv1.ConversationResponse, error) {
	return s.onConversation(ctx, req.ConversationID, s.conversations.Unpin)
}

func (s *ChatServer) MuteConversation(ctx context.Context, req *chatv1.ExpiryRequest) (*chatv1.ConversationResponse, error) {
	return s.onExpiry(ctx, req, s.conversations.Mute)
}

func (s *ChatServer) UnmuteConversation(ctx context.Context, req *chatv1.ConversationRequest) (*chatv1.ConversationResponse, error) {
	return s.onConversation(ctx, req.ConversationID, s.conversations.Unmute)
}

func (s *ChatServer) ArchiveConversation(ctx context.Context, req *chatv1.ExpiryRequest) (*chatv1.ConversationResponse, error) {
	return s.onExpiry(ctx, req, s.conversations.Archive)
}

func (s *ChatServer) UnarchiveConversation(ctx context.Context, req *chatv1.ConversationRequest) (*chatv1.ConversationResponse, error) {
	return s.onConversation(ctx, req.ConversationID, s.conversations.Unarchive)
}

func (s *ChatServer) DeleteConversation(ctx context.Context, req *chatv1.ConversationRequest) (*chatv1.Empty, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	if err = s.conversations.Delete(ctx, viewerID, req.ConversationID); err != nil {
		return nil, s.fail("DeleteConversation", err)
	}
	return &chatv1.Empty{}, nil
}

func (s *ChatServer) SendMessage(ctx context.Context, req *chatv1.SendMessageRequest) (*chatv1.MessageResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.messages.Send(ctx, chat.SendMessageCommand{
		ViewerID:       viewerID,
		ConversationID: req.ConversationID,
		Content:        req.Content,
		Type:           chat.MessageType(req.Type),
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		ReplyTo:        req.ReplyTo,
		Metadata:       req.Metadata,
	})
	return s.messageResponse("SendMessage", message, err)
}

func (s *ChatServer) GetMessage(ctx context.Context, req *chatv1.MessageRequest) (*chatv1.MessageResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.messages.Get(ctx, viewerID, req.MessageID)
	return s.messageResponse("GetMessage", message, err)
}

func (s *ChatServer) ListMessages(ctx context.Context, req *chatv1.ListMessagesRequest) (*chatv1.ListMessagesResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	messages, next, err := s.messages.List(ctx, chat.ListMessagesCommand{
		ViewerID:       viewerID,
		ConversationID: req.ConversationID,
		Cursor:         req.Cursor,
		Limit:          req.Limit,
	})
	if err != nil {
		return nil, s.fail("ListMessages", err)
	}
	return &chatv1.ListMessagesResponse{
		Messages:   projection.ProjectMessages(messages),
		NextCursor: next,
	}, nil
}

func (s *ChatServer) MarkMessageAsRead(ctx context.Context, req *chatv1.MessageRequest) (*chatv1.MessageResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.messages.MarkAsRead(ctx, viewerID, req.MessageID)
	return s.messageResponse("MarkMessageAsRead", message, err)
}

func (s *ChatServer) EditMessage(ctx context.Context, req *chatv1.EditMessageRequest) (*chatv1.MessageResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.messages.Edit(ctx, chat.EditMessageCommand{
		ViewerID:  viewerID,
		MessageID: req.MessageID,
		Content:   req.Content,
	})
	return s.messageResponse("EditMessage", message, err)
}

func (s *ChatServer) ReactToMessage(ctx context.Context, req *chatv1.ReactRequest) (*chatv1.MessageResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	message, err := s.messages.React(ctx, chat.ReactCommand{
		ViewerID:  viewerID,
		MessageID: req.MessageID,
		Emoji:     req.Emoji,
	})
	return s.messageResponse("ReactToMessage", message, err)
}

func (s *ChatServer) onConversation(
	ctx context.Context,
	conversationID string,
	call func(ctx context.Context, viewerID, conversationID string) (*chat.Conversation, error),
) (*chatv1.ConversationResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	conversation, err := call(ctx, viewerID, conversationID)
	return s.conversationResponse(conversation, viewerID, err)
}

func (s *ChatServer) onParticipant(
	ctx context.Context,
	req *chatv1.ParticipantRequest,
	call func(context.Context, chat.ParticipantCommand) (*chat.Conversation, error),
) (*chatv1.ConversationResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	conversation, err := call(ctx, chat.ParticipantCommand{
		ViewerID:       viewerID,
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
	})
	return s.conversationResponse(conversation, viewerID, err)
}

func (s *ChatServer) onExpiry(
	ctx context.Context,
	req *chatv1.ExpiryRequest,
	call func(context.Context, chat.ExpiryCommand) (*chat.Conversation, error),
) (*chatv1.ConversationResponse, error) {
	viewerID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	var until *time.Time
	if req.Until != nil {
		at := time.UnixMilli(*req.Until).UTC()
		until = &at
	}
	conversation, err := call(ctx, chat.ExpiryCommand{
		ViewerID:       viewerID,
		ConversationID: req.ConversationID,
		Until:          until,
	})
	return s.conversationResponse(conversation, viewerID, err)
}

func (s *ChatServer) conversationResponse(conversation *chat.Conversation, viewerID string, err error) (*chatv1.ConversationResponse, error) {
	if err != nil {
		return nil, s.fail("conversation", err)
	}
	return &chatv1.ConversationResponse{Conversation: projection.ProjectConversation(conversation, viewerID)}, nil
}

func (s *ChatServer) messageResponse(method string, message *chat.Message, err error) (*chatv1.MessageResponse, error) {
	if err != nil {
		return nil, s.fail(method, err)
	}
	return &chatv1.MessageResponse{Message: projection.ProjectMessage(message)}, nil
}

// fail maps err to a status. Only unexpected failures are logged.
func (s *ChatServer) fail(method string, err error) error {
	grpcErr := errors.MapToGRPCError(err)
	if status.Code(grpcErr) == codes.Internal {
		s.log.Error("Request failed", "method", method, "error", err)
	}
	return grpcErr
}
