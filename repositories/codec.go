package repositories

import (
	"chat-service/domain/chat"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Records are stored as protobuf Struct values. Times are RFC3339 strings with
// nanoseconds and fileSize is a decimal string, so nothing loses precision
// through the float-only number type of Struct.

var marshalOptions = proto.MarshalOptions{Deterministic: true}

func EncodeConversation(conversation *chat.Conversation) ([]byte, error) {
	p := conversation.ToProps()
	fields := map[string]any{
		"id":                p.ID,
		"type":              string(p.Type),
		"participantIds":    lo.ToAnySlice(p.ParticipantIDs),
		"createdAt":         formatTime(p.CreatedAt),
		"updatedAt":         formatTime(p.UpdatedAt),
		"isActive":          lo.FromPtrOr(p.IsActive, true),
		"adminIds":          lo.ToAnySlice(p.AdminIDs),
		"pinnedBy":          lo.ToAnySlice(p.PinnedBy),
		"mutedBy":           lo.ToAnySlice(p.MutedBy),
		"archivedBy":        lo.ToAnySlice(p.ArchivedBy),
		"userMutedUntil":    encodeExpiries(p.UserMutedUntil),
		"userArchivedUntil": encodeExpiries(p.UserArchivedUntil),
	}
	putString(fields, "lastMessageId", p.LastMessageID)
	putString(fields, "name", p.Name)
	putString(fields, "description", p.Description)
	putString(fields, "avatar", p.Avatar)
	return marshalStruct(fields)
}

func DecodeConversation(data []byte) (*chat.Conversation, error) {
	fields, err := unmarshalStruct(data)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(fields, "createdAt")
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(fields, "updatedAt")
	if err != nil {
		return nil, err
	}
	mutedUntil, err := decodeExpiries(fields, "userMutedUntil")
	if err != nil {
		return nil, err
	}
	archivedUntil, err := decodeExpiries(fields, "userArchivedUntil")
	if err != nil {
		return nil, err
	}
	isActive, ok := fields["isActive"].(bool)
	if !ok {
		isActive = true
	}
	return chat.ConversationFromPrimitives(chat.ConversationProps{
		ID:                getString(fields, "id"),
		Type:              chat.ConversationType(getString(fields, "type")),
		ParticipantIDs:    getStrings(fields, "participantIds"),
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
		LastMessageID:     getOptString(fields, "lastMessageId"),
		IsActive:          &isActive,
		Name:              getOptString(fields, "name"),
		Description:       getOptString(fields, "description"),
		Avatar:            getOptString(fields, "avatar"),
		AdminIDs:          getStrings(fields, "adminIds"),
		PinnedBy:          getStrings(fields, "pinnedBy"),
		MutedBy:           getStrings(fields, "mutedBy"),
		ArchivedBy:        getStrings(fields, "archivedBy"),
		UserMutedUntil:    mutedUntil,
		UserArchivedUntil: archivedUntil,
	})
}

func EncodeMessage(message *chat.Message) ([]byte, error) {
	p := message.ToProps()
	reactions := make([]any, 0, len(p.Reactions))
	for _, r := range p.Reactions {
		reactions = append(reactions, map[string]any{
			"id":        r.ID,
			"userId":    r.UserID,
			"emoji":     r.Emoji,
			"timestamp": formatTime(r.Timestamp),
		})
	}
	fields := map[string]any{
		"id":             p.ID,
		"conversationId": p.ConversationID,
		"senderId":       p.SenderID,
		"receiverId":     p.ReceiverID,
		"content":        p.Content,
		"type":           string(p.Type),
		"timestamp":      formatTime(p.Timestamp),
		"status":         string(p.Status),
		"reactions":      reactions,
		"readBy":         lo.ToAnySlice(p.ReadBy),
	}
	putString(fields, "fileUrl", p.FileURL)
	putString(fields, "fileName", p.FileName)
	putString(fields, "replyTo", p.ReplyTo)
	if p.FileSize != nil {
		fields["fileSize"] = strconv.FormatInt(*p.FileSize, 10)
	}
	if p.EditedAt != nil {
		fields["editedAt"] = formatTime(*p.EditedAt)
	}
	if len(p.Metadata) > 0 {
		fields["metadata"] = p.Metadata
	}
	return marshalStruct(fields)
}

func DecodeMessage(data []byte) (*chat.Message, error) {
	fields, err := unmarshalStruct(data)
	if err != nil {
		return nil, err
	}
	timestamp, err := parseTime(fields, "timestamp")
	if err != nil {
		return nil, err
	}
	editedAt, err := parseOptTime(fields, "editedAt")
	if err != nil {
		return nil, err
	}

	var fileSize *int64
	if raw, ok := fields["fileSize"].(string); ok {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fileSize %q: %w", raw, err)
		}
		fileSize = &size
	}

	var reactions []chat.Reaction
	rawReactions, _ := fields["reactions"].([]any)
	for _, raw := range rawReactions {
		r, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		at, err := parseTime(r, "timestamp")
		if err != nil {
			return nil, err
		}
		reactions = append(reactions, chat.Reaction{
			ID:        getString(r, "id"),
			UserID:    getString(r, "userId"),
			Emoji:     getString(r, "emoji"),
			Timestamp: at,
		})
	}

	metadata, _ := fields["metadata"].(map[string]any)
	return chat.MessageFromPrimitives(chat.MessageProps{
		ID:             getString(fields, "id"),
		ConversationID: getString(fields, "conversationId"),
		SenderID:       getString(fields, "senderId"),
		ReceiverID:     getString(fields, "receiverId"),
		Content:        getString(fields, "content"),
		Type:           chat.MessageType(getString(fields, "type")),
		Timestamp:      timestamp,
		Status:         chat.MessageStatus(getString(fields, "status")),
		FileURL:        getOptString(fields, "fileUrl"),
		FileName:       getOptString(fields, "fileName"),
		FileSize:       fileSize,
		ReplyTo:        getOptString(fields, "replyTo"),
		Reactions:      reactions,
		EditedAt:       editedAt,
		ReadBy:         getStrings(fields, "readBy"),
		Metadata:       metadata,
	})
}

func marshalStruct(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("unable to build record: %w", err)
	}
	return marshalOptions.Marshal(s)
}

func unmarshalStruct(data []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unable to read record: %w", err)
	}
	return s.AsMap(), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(fields map[string]any, key string) (time.Time, error) {
	raw, _ := fields[key].(string)
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return t.UTC(), nil
}

func parseOptTime(fields map[string]any, key string) (*time.Time, error) {
	if _, ok := fields[key].(string); !ok {
		return nil, nil
	}
	t, err := parseTime(fields, key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encodeExpiries(m map[string]*time.Time) map[string]any {
	out := make(map[string]any, len(m))
	for userID, until := range m {
		if until == nil {
			out[userID] = nil
			continue
		}
		out[userID] = formatTime(*until)
	}
	return out
}

func decodeExpiries(fields map[string]any, key string) (map[string]*time.Time, error) {
	raw, _ := fields[key].(map[string]any)
	out := make(map[string]*time.Time, len(raw))
	for userID := range raw {
		until, err := parseOptTime(raw, userID)
		if err != nil {
			return nil, err
		}
		out[userID] = until
	}
	return out, nil
}

func putString(fields map[string]any, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

func getString(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func getOptString(fields map[string]any, key string) *string {
	s, ok := fields[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func getStrings(fields map[string]any, key string) []string {
	raw, _ := fields[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
