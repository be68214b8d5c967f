package repositories

import (
	"fmt"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// InspectMapper renders stored records for the badger debug inspector.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, conversationPrefix):
		conversation, err := DecodeConversation(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = strings.ToUpper(string(conversation.Type()))
		row.Detail = fmt.Sprintf("participants=%s admins=%s",
			strings.Join(conversation.ParticipantIDs(), ","),
			strings.Join(conversation.AdminIDs(), ","))
		if name, ok := conversation.Name(); ok {
			row.Detail = name + " " + row.Detail
		}

	case strings.HasPrefix(key, messagePrefix):
		message, err := DecodeMessage(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "MESSAGE"
		row.Detail = fmt.Sprintf("[%s] %s: %s", message.Status(), message.SenderID(), message.Content())

	case strings.HasPrefix(key, directPrefix), strings.HasPrefix(key, timelinePrefix):
		row.Type = "INDEX"
		row.Detail = string(val)

	case strings.HasPrefix(key, memberPrefix):
		row.Type = "MEMBER"
	}
	return row
}
