//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"chat-service/domain/chat"
	"chat-service/errors"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IConversationRepository interface {
	FindByID(ctx context.Context, id string) (*chat.Conversation, error)
	FindByParticipants(ctx context.Context, participantIDs []string) (*chat.Conversation, error)
	FindByUserID(ctx context.Context, userID string, page, limit int) (ConversationPage, error)
	Save(ctx context.Context, conversation *chat.Conversation) error
	Update(ctx context.Context, previous, next *chat.Conversation) error
	Delete(ctx context.Context, id string) error
}

// ConversationPage is one page of a user's conversations, most recently updated first.
type ConversationPage struct {
	Conversations []*chat.Conversation
	Total         int
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) IConversationRepository {
	return &ConversationRepository{db: db, log: log}
}

// Key layout:
//
//	conversation:{id}             encoded conversation
//	direct:{seg(userA)}{seg(userB)}  id of the direct conversation between two users (ids sorted)
//	member:{seg(userId)}{id}         one empty entry per participant, used by FindByUserID
//
// seg is keySegment, so user ids may contain any character.
const (
	conversationPrefix = "conversation:"
	directPrefix       = "direct:"
	memberPrefix       = "member:"
)

func conversationKey(id string) []byte { return []byte(conversationPrefix + id) }
func memberUserPrefix(userID string) []byte { return []byte(memberPrefix + keySegment(userID)) }
func memberKey(userID, id string) []byte   { return append(memberUserPrefix(userID), id...) }

// directKey identifies a participant set regardless of order.
func directKey(participantIDs []string) []byte {
	ids := lo.Uniq(participantIDs)
	slices.Sort(ids)
	return []byte(directPrefix + strings.Join(lo.Map(ids, func(id string, _ int) string {
		return keySegment(id)
	}), ""))
}

func (r *ConversationRepository) FindByID(_ context.Context, id string) (*chat.Conversation, error) {
	var conversation *chat.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		c, err := r.load(txn, id)
		conversation = c
		return err
	})
	return conversation, err
}

// FindByParticipants returns the conversation whose participant set is exactly
// participantIDs. Direct conversations are resolved through their index first.
func (r *ConversationRepository) FindByParticipants(_ context.Context, participantIDs []string) (*chat.Conversation, error) {
	wanted := lo.Uniq(participantIDs)
	if len(wanted) == 0 {
		return nil, errors.ErrConversationNotFound
	}

	var found *chat.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(directKey(wanted))
		switch {
		case err == nil:
			id, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			c, err := r.load(txn, string(id))
			if err != nil && !stdErrors.Is(err, errors.ErrConversationNotFound) {
				return err
			}
			if c != nil && sameSet(c.ParticipantIDs(), wanted) {
				found = c
				return nil
			}
			r.log.Warn("Direct index does not match its conversation", "conversation_id", string(id))
		case !stdErrors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		for _, id := range r.memberConversationIDs(txn, wanted[0]) {
			c, err := r.load(txn, id)
			if err != nil {
				return err
			}
			if sameSet(c.ParticipantIDs(), wanted) {
				found = c
				return nil
			}
		}
		return errors.ErrConversationNotFound
	})
	return found, err
}

// FindByUserID pages through the conversations userID takes part in.
// page starts at 1. A limit of 0 returns every conversation.
func (r *ConversationRepository) FindByUserID(_ context.Context, userID string, page, limit int) (ConversationPage, error) {
	var conversations []*chat.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range r.memberConversationIDs(txn, userID) {
			c, err := r.load(txn, id)
			if err != nil {
				if stdErrors.Is(err, errors.ErrConversationNotFound) {
					r.log.Warn("Dangling member index", "user_id", userID, "conversation_id", id)
					continue
				}
				return err
			}
			conversations = append(conversations, c)
		}
		return nil
	})
	if err != nil {
		return ConversationPage{}, err
	}

	slices.SortStableFunc(conversations, func(a, b *chat.Conversation) int {
		if c := b.UpdatedAt().Compare(a.UpdatedAt()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})

	total := len(conversations)
	if limit <= 0 {
		return ConversationPage{Conversations: conversations, Total: total}, nil
	}
	page = max(page, 1)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return ConversationPage{Conversations: conversations[start:end], Total: total}, nil
}

// Save inserts a new conversation. A second direct conversation between the
// same users is rejected with ErrConversationExists inside the same transaction.
func (r *ConversationRepository) Save(_ context.Context, conversation *chat.Conversation) error {
	bytes, err := EncodeConversation(conversation)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(conversationKey(conversation.ID())); err == nil {
			return errors.ErrConversationExists
		} else if !stdErrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if conversation.IsDirect() {
			key := directKey(conversation.ParticipantIDs())
			if _, err := txn.Get(key); err == nil {
				return errors.ErrConversationExists
			} else if !stdErrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(key, []byte(conversation.ID())); err != nil {
				return err
			}
		}
		for _, userID := range conversation.ParticipantIDs() {
			if err := txn.Set(memberKey(userID, conversation.ID()), nil); err != nil {
				return err
			}
		}
		return txn.Set(conversationKey(conversation.ID()), bytes)
	})
	return mapConflict(err)
}

// Update replaces previous with next as long as nobody wrote the conversation
// since previous was read. Otherwise ErrConcurrentModification is returned and
// the caller is expected to reload and retry.
func (r *ConversationRepository) Update(_ context.Context, previous, next *chat.Conversation) error {
	if previous.ID() != next.ID() {
		return fmt.Errorf("cannot update conversation %s with %s", previous.ID(), next.ID())
	}
	bytes, err := EncodeConversation(next)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		stored, err := r.load(txn, previous.ID())
		if err != nil {
			return err
		}
		if !stored.UpdatedAt().Equal(previous.UpdatedAt()) {
			return errors.ErrConcurrentModification
		}

		before, after := stored.ParticipantIDs(), next.ParticipantIDs()
		removed, added := lo.Difference(before, after)
		for _, userID := range removed {
			if err := txn.Delete(memberKey(userID, next.ID())); err != nil {
				return err
			}
		}
		for _, userID := range added {
			if err := txn.Set(memberKey(userID, next.ID()), nil); err != nil {
				return err
			}
		}
		if stored.IsDirect() && !sameSet(before, after) {
			if err := txn.Delete(directKey(before)); err != nil {
				return err
			}
			if err := txn.Set(directKey(after), []byte(next.ID())); err != nil {
				return err
			}
		}
		return txn.Set(conversationKey(next.ID()), bytes)
	})
	return mapConflict(err)
}

func (r *ConversationRepository) Delete(_ context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		stored, err := r.load(txn, id)
		if err != nil {
			return err
		}
		for _, userID := range stored.ParticipantIDs() {
			if err := txn.Delete(memberKey(userID, id)); err != nil {
				return err
			}
		}
		if stored.IsDirect() {
			if err := txn.Delete(directKey(stored.ParticipantIDs())); err != nil {
				return err
			}
		}
		return txn.Delete(conversationKey(id))
	})
	return mapConflict(err)
}

func (r *ConversationRepository) load(txn *badger.Txn, id string) (*chat.Conversation, error) {
	item, err := txn.Get(conversationKey(id))
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	var conversation *chat.Conversation
	err = item.Value(func(value []byte) error {
		c, err := DecodeConversation(value)
		conversation = c
		return err
	})
	return conversation, err
}

// memberConversationIDs lists the conversation ids indexed under userID with
// a key-only scan.
func (r *ConversationRepository) memberConversationIDs(txn *badger.Txn, userID string) []string {
	prefix := memberUserPrefix(userID)
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	return ids
}

func sameSet(a, b []string) bool {
	ua, ub := lo.Uniq(a), lo.Uniq(b)
	return len(ua) == len(ub) && lo.Every(ua, ub)
}

// mapConflict turns a badger commit conflict into the domain error callers retry on.
func mapConflict(err error) error {
	if stdErrors.Is(err, badger.ErrConflict) {
		return errors.ErrConcurrentModification
	}
	return err
}
