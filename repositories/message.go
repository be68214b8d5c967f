//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"chat-service/domain/chat"
	"chat-service/errors"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	FindByID(ctx context.Context, id string) (*chat.Message, error)
	FindByConversation(ctx context.Context, conversationID string, cursor *string, limit int) ([]*chat.Message, *string, error)
	Save(ctx context.Context, message *chat.Message) error
	Update(ctx context.Context, previous, next *chat.Message) error
	Delete(ctx context.Context, id string) error
	DeleteByConversation(ctx context.Context, conversationID string) (int, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages int) IMessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// Key layout:
//
//	message:{id}                                   encoded message
//	timeline:{seg(conversationId)}{unixNano:019d}:{id}  message id, sorted by time
const (
	messagePrefix  = "message:"
	timelinePrefix = "timeline:"
)

func messageKey(id string) []byte { return []byte(messagePrefix + id) }
func timelineConversationPrefix(conversationID string) []byte {
	return []byte(timelinePrefix + keySegment(conversationID))
}

// timelineCursor is the part of the timeline key after the conversation prefix.
// The 19 digit zero padding keeps the lexicographic order chronological and the
// id breaks ties between messages sharing a nanosecond.
func timelineCursor(message *chat.Message) string {
	return fmt.Sprintf("%019d:%s", message.Timestamp().UnixNano(), message.ID())
}

func timelineKey(message *chat.Message) []byte {
	return append(timelineConversationPrefix(message.ConversationID()), timelineCursor(message)...)
}

func (m *MessageRepository) FindByID(_ context.Context, id string) (*chat.Message, error) {
	var message *chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		msg, _, err := m.load(txn, id)
		message = msg
		return err
	})
	return message, err
}

// FindByConversation walks the conversation timeline from the newest message
// backwards. cursor is the value returned by the previous call; the returned
// cursor is nil once the oldest message has been reached.
func (m *MessageRepository) FindByConversation(_ context.Context, conversationID string, cursor *string, limit int) ([]*chat.Message, *string, error) {
	if limit <= 0 {
		limit = m.limitMessages
	}

	var messages []*chat.Message
	var next *string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := timelineConversationPrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Past the newest possible timestamp, then walk back
			seekKey = append(bytes.Clone(prefix), []byte("9999999999999999999")...)
		default:
			seekKey = append(bytes.Clone(prefix), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && bytes.Equal(it.Item().Key(), seekKey) {
			it.Next()
		}

		var lastKey string
		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(messages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
				next = &lastKey
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			message, _, err := m.load(txn, string(id))
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return messages, next, nil
}

func (m *MessageRepository) Save(_ context.Context, message *chat.Message) error {
	encoded, err := EncodeMessage(message)
	if err != nil {
		return err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(timelineKey(message), []byte(message.ID())); err != nil {
			return err
		}
		return txn.Set(messageKey(message.ID()), encoded)
	})
	return mapConflict(err)
}

// Update swaps previous for next only when the stored record still encodes
// previous byte for byte.
func (m *MessageRepository) Update(_ context.Context, previous, next *chat.Message) error {
	if previous.ID() != next.ID() {
		return fmt.Errorf("cannot update message %s with %s", previous.ID(), next.ID())
	}
	expected, err := EncodeMessage(previous)
	if err != nil {
		return err
	}
	encoded, err := EncodeMessage(next)
	if err != nil {
		return err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		_, stored, err := m.load(txn, previous.ID())
		if err != nil {
			return err
		}
		if !bytes.Equal(stored, expected) {
			return errors.ErrConcurrentModification
		}
		return txn.Set(messageKey(next.ID()), encoded)
	})
	return mapConflict(err)
}

func (m *MessageRepository) Delete(_ context.Context, id string) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		stored, _, err := m.load(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(timelineKey(stored)); err != nil {
			return err
		}
		return txn.Delete(messageKey(id))
	})
	return mapConflict(err)
}

// DeleteByConversation removes every message of a conversation along with its
// timeline entries and returns how many messages were removed.
func (m *MessageRepository) DeleteByConversation(_ context.Context, conversationID string) (int, error) {
	prefix := timelineConversationPrefix(conversationID)
	var keys [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			keys = append(keys, item.KeyCopy(nil), messageKey(string(id)))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	wb := m.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return len(keys) / 2, nil
}

// load returns the decoded message along with its raw stored bytes.
func (m *MessageRepository) load(txn *badger.Txn, id string) (*chat.Message, []byte, error) {
	item, err := txn.Get(messageKey(id))
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, nil, err
	}
	message, err := DecodeMessage(raw)
	if err != nil {
		return nil, nil, err
	}
	return message, raw, nil
}
