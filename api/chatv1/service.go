package chatv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "chat.v1.ChatService"

const (
	ChatService_CreateDirectConversation_FullMethodName = "/chat.v1.ChatService/CreateDirectConversation"
	ChatService_CreateGroupConversation_FullMethodName  = "/chat.v1.ChatService/CreateGroupConversation"
	ChatService_GetConversation_FullMethodName          = "/chat.v1.ChatService/GetConversation"
	ChatService_ListConversations_FullMethodName        = "/chat.v1.ChatService/ListConversations"
	ChatService_AddParticipant_FullMethodName           = "/chat.v1.ChatService/AddParticipant"
	ChatService_RemoveParticipant_FullMethodName        = "/chat.v1.ChatService/RemoveParticipant"
	ChatService_AddAdmin_FullMethodName                 = "/chat.v1.ChatService/AddAdmin"
	ChatService_PinConversation_FullMethodName          = "/chat.v1.ChatService/PinConversation"
	ChatService_UnpinConversation_FullMethodName        = "/chat.v1.ChatService/UnpinConversation"
	ChatService_MuteConversation_FullMethodName         = "/chat.v1.ChatService/MuteConversation"
	ChatService_UnmuteConversation_FullMethodName       = "/chat.v1.ChatService/UnmuteConversation"
	ChatService_ArchiveConversation_FullMethodName      = "/chat.v1.ChatService/ArchiveConversation"
	ChatService_UnarchiveConversation_FullMethodName    = "/chat.v1.ChatService/UnarchiveConversation"
	ChatService_DeleteConversation_FullMethodName       = "/chat.v1.ChatService/DeleteConversation"
	ChatService_SendMessage_FullMethodName              = "/chat.v1.ChatService/SendMessage"
	ChatService_GetMessage_FullMethodName               = "/chat.v1.ChatService/GetMessage"
	ChatService_ListMessages_FullMethodName             = "/chat.v1.ChatService/ListMessages"
	ChatService_MarkMessageAsRead_FullMethodName        = "/chat.v1.ChatService/MarkMessageAsRead"
	ChatService_EditMessage_FullMethodName              = "/chat.v1.ChatService/EditMessage"
	ChatService_ReactToMessage_FullMethodName           = "/chat.v1.ChatService/ReactToMessage"
)

// ChatServiceServer is the server API for the chat service.
type ChatServiceServer interface {
	CreateDirectConversation(context.Context, *CreateDirectConversationRequest) (*ConversationResponse, error)
	CreateGroupConversation(context.Context, *CreateGroupConversationRequest) (*ConversationResponse, error)
	GetConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	AddParticipant(context.Context, *ParticipantRequest) (*ConversationResponse, error)
	RemoveParticipant(context.Context, *ParticipantRequest) (*ConversationResponse, error)
	AddAdmin(context.Context, *ParticipantRequest) (*ConversationResponse, error)
	PinConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	UnpinConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	MuteConversation(context.Context, *ExpiryRequest) (*ConversationResponse, error)
	UnmuteConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	ArchiveConversation(context.Context, *ExpiryRequest) (*ConversationResponse, error)
	UnarchiveConversation(context.Context, *ConversationRequest) (*ConversationResponse, error)
	DeleteConversation(context.Context, *ConversationRequest) (*Empty, error)
	SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error)
	GetMessage(context.Context, *MessageRequest) (*MessageResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	MarkMessageAsRead(context.Context, *MessageRequest) (*MessageResponse, error)
	EditMessage(context.Context, *EditMessageRequest) (*MessageResponse, error)
	ReactToMessage(context.Context, *ReactRequest) (*MessageResponse, error)
	mustEmbedUnimplementedChatServiceServer()
}

// UnimplementedChatServiceServer must be embedded by implementations.
type UnimplementedChatServiceServer struct{}

func (UnimplementedChatServiceServer) CreateDirectConversation(context.Context, *CreateDirectConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateDirectConversation not implemented")
}
func (UnimplementedChatServiceServer) CreateGroupConversation(context.Context, *CreateGroupConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateGroupConversation not implemented")
}
func (UnimplementedChatServiceServer) GetConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConversation not implemented")
}
func (UnimplementedChatServiceServer) ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListConversations not implemented")
}
func (UnimplementedChatServiceServer) AddParticipant(context.Context, *ParticipantRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddParticipant not implemented")
}
func (UnimplementedChatServiceServer) RemoveParticipant(context.Context, *ParticipantRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveParticipant not implemented")
}
func (UnimplementedChatServiceServer) AddAdmin(context.Context, *ParticipantRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddAdmin not implemented")
}
func (UnimplementedChatServiceServer) PinConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PinConversation not implemented")
}
func (UnimplementedChatServiceServer) UnpinConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UnpinConversation not implemented")
}
func (UnimplementedChatServiceServer) MuteConversation(context.Context, *ExpiryRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MuteConversation not implemented")
}
func (UnimplementedChatServiceServer) UnmuteConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UnmuteConversation not implemented")
}
func (UnimplementedChatServiceServer) ArchiveConversation(context.Context, *ExpiryRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ArchiveConversation not implemented")
}
func (UnimplementedChatServiceServer) UnarchiveConversation(context.Context, *ConversationRequest) (*ConversationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UnarchiveConversation not implemented")
}
func (UnimplementedChatServiceServer) DeleteConversation(context.Context, *ConversationRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteConversation not implemented")
}
func (UnimplementedChatServiceServer) SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedChatServiceServer) GetMessage(context.Context, *MessageRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMessage not implemented")
}
func (UnimplementedChatServiceServer) ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMessages not implemented")
}
func (UnimplementedChatServiceServer) MarkMessageAsRead(context.Context, *MessageRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkMessageAsRead not implemented")
}
func (UnimplementedChatServiceServer) EditMessage(context.Context, *EditMessageRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EditMessage not implemented")
}
func (UnimplementedChatServiceServer) ReactToMessage(context.Context, *ReactRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReactToMessage not implemented")
}
func (UnimplementedChatServiceServer) mustEmbedUnimplementedChatServiceServer() {}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(ChatServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateDirectConversation", Handler: unaryHandler(ChatService_CreateDirectConversation_FullMethodName, ChatServiceServer.CreateDirectConversation)},
		{MethodName: "CreateGroupConversation", Handler: unaryHandler(ChatService_CreateGroupConversation_FullMethodName, ChatServiceServer.CreateGroupConversation)},
		{MethodName: "GetConversation", Handler: unaryHandler(ChatService_GetConversation_FullMethodName, ChatServiceServer.GetConversation)},
		{MethodName: "ListConversations", Handler: unaryHandler(ChatService_ListConversations_FullMethodName, ChatServiceServer.ListConversations)},
		{MethodName: "AddParticipant", Handler: unaryHandler(ChatService_AddParticipant_FullMethodName, ChatServiceServer.AddParticipant)},
		{MethodName: "RemoveParticipant", Handler: unaryHandler(ChatService_RemoveParticipant_FullMethodName, ChatServiceServer.RemoveParticipant)},
		{MethodName: "AddAdmin", Handler: unaryHandler(ChatService_AddAdmin_FullMethodName, ChatServiceServer.AddAdmin)},
		{MethodName: "PinConversation", Handler: unaryHandler(ChatService_PinConversation_FullMethodName, ChatServiceServer.PinConversation)},
		{MethodName: "UnpinConversation", Handler: unaryHandler(ChatService_UnpinConversation_FullMethodName, ChatServiceServer.UnpinConversation)},
		{MethodName: "MuteConversation", Handler: unaryHandler(ChatService_MuteConversation_FullMethodName, ChatServiceServer.MuteConversation)},
		{MethodName: "UnmuteConversation", Handler: unaryHandler(ChatService_UnmuteConversation_FullMethodName, ChatServiceServer.UnmuteConversation)},
		{MethodName: "ArchiveConversation", Handler: unaryHandler(ChatService_ArchiveConversation_FullMethodName, ChatServiceServer.ArchiveConversation)},
		{MethodName: "UnarchiveConversation", Handler: unaryHandler(ChatService_UnarchiveConversation_FullMethodName, ChatServiceServer.UnarchiveConversation)},
		{MethodName: "DeleteConversation", Handler: unaryHandler(ChatService_DeleteConversation_FullMethodName, ChatServiceServer.DeleteConversation)},
		{MethodName: "SendMessage", Handler: unaryHandler(ChatService_SendMessage_FullMethodName, ChatServiceServer.SendMessage)},
		{MethodName: "GetMessage", Handler: unaryHandler(ChatService_GetMessage_FullMethodName, ChatServiceServer.GetMessage)},
		{MethodName: "ListMessages", Handler: unaryHandler(ChatService_ListMessages_FullMethodName, ChatServiceServer.ListMessages)},
		{MethodName: "MarkMessageAsRead", Handler: unaryHandler(ChatService_MarkMessageAsRead_FullMethodName, ChatServiceServer.MarkMessageAsRead)},
		{MethodName: "EditMessage", Handler: unaryHandler(ChatService_EditMessage_FullMethodName, ChatServiceServer.EditMessage)},
		{MethodName: "ReactToMessage", Handler: unaryHandler(ChatService_ReactToMessage_FullMethodName, ChatServiceServer.ReactToMessage)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chat/v1/chat.json",
}

// ChatServiceClient is the client API for the chat service.
type ChatServiceClient interface {
	CreateDirectConversation(ctx context.Context, in *CreateDirectConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	CreateGroupConversation(ctx context.Context, in *CreateGroupConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	GetConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error)
	AddParticipant(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	RemoveParticipant(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	AddAdmin(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	PinConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	UnpinConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	MuteConversation(ctx context.Context, in *ExpiryRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	UnmuteConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	ArchiveConversation(ctx context.Context, in *ExpiryRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	UnarchiveConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error)
	DeleteConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*Empty, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	GetMessage(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error)
	MarkMessageAsRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ReactToMessage(ctx context.Context, in *ReactRequest, opts ...grpc.CallOption) (*MessageResponse, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

// invoke forces the JSON codec whatever the connection defaults are.
func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) CreateDirectConversation(ctx context.Context, in *CreateDirectConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_CreateDirectConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) CreateGroupConversation(ctx context.Context, in *CreateGroupConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_CreateGroupConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_GetConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error) {
	return invoke[ListConversationsResponse](ctx, c.cc, ChatService_ListConversations_FullMethodName, in, opts)
}

func (c *chatServiceClient) AddParticipant(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_AddParticipant_FullMethodName, in, opts)
}

func (c *chatServiceClient) RemoveParticipant(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_RemoveParticipant_FullMethodName, in, opts)
}

func (c *chatServiceClient) AddAdmin(ctx context.Context, in *ParticipantRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_AddAdmin_FullMethodName, in, opts)
}

func (c *chatServiceClient) PinConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_PinConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) UnpinConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_UnpinConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) MuteConversation(ctx context.Context, in *ExpiryRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_MuteConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) UnmuteConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_UnmuteConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) ArchiveConversation(ctx context.Context, in *ExpiryRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_ArchiveConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) UnarchiveConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ChatService_UnarchiveConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) DeleteConversation(ctx context.Context, in *ConversationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ChatService_DeleteConversation_FullMethodName, in, opts)
}

func (c *chatServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_SendMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetMessage(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_GetMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, ChatService_ListMessages_FullMethodName, in, opts)
}

func (c *chatServiceClient) MarkMessageAsRead(ctx context.Context, in *MessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_MarkMessageAsRead_FullMethodName, in, opts)
}

func (c *chatServiceClient) EditMessage(ctx context.Context, in *EditMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_EditMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) ReactToMessage(ctx context.Context, in *ReactRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_ReactToMessage_FullMethodName, in, opts)
}
