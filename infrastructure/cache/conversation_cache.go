package cache

import (
	"chat-service/domain/chat"
	"chat-service/errors"
	"chat-service/repositories"
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the subset of redis commands the cache relies on. *redis.Client
// satisfies it.
type Store interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Entries are hashes {v: version, data: encoded conversation}. The version is
// the zero padded updatedAt in nanoseconds, so versions compare as strings.
// setIfNewer only writes when the cached version is older than ARGV[1].
const setIfNewer = `
local current = redis.call('HGET', KEYS[1], 'v')
if current and current >= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], 'v', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`

// tombstoneVersion outranks every real version. A deleted conversation keeps
// an empty entry with it until the ttl expires, so no late fill can revive it.
const tombstoneVersion = "9999999999999999999"

// ConversationCache is a read-through cache in front of a conversation
// repository. Only FindByID is served from redis. Fills and successful writes
// go through setIfNewer, so a reader that loaded an older version can never
// overwrite the one written by a concurrent update.
// A redis failure never fails the call, the repository answer is used instead.
type ConversationCache struct {
	next   repositories.IConversationRepository
	store  Store
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

func NewConversationCache(next repositories.IConversationRepository, store Store, prefix string, ttl time.Duration, log *slog.Logger) repositories.IConversationRepository {
	return &ConversationCache{next: next, store: store, prefix: prefix, ttl: ttl, log: log}
}

// NewClient connects to the redis pointed by url and checks it answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

func (c *ConversationCache) key(id string) string {
	return c.prefix + "conversation:" + id
}

func version(conversation *chat.Conversation) string {
	return fmt.Sprintf("%019d", conversation.UpdatedAt().UnixNano())
}

func (c *ConversationCache) FindByID(ctx context.Context, id string) (*chat.Conversation, error) {
	raw, err := c.store.HGet(ctx, c.key(id), "data").Bytes()
	switch {
	case err == nil && len(raw) == 0:
		return nil, errors.ErrConversationNotFound
	case err == nil:
		conversation, decodeErr := repositories.DecodeConversation(raw)
		if decodeErr == nil {
			return conversation, nil
		}
		c.log.Warn("Dropping unreadable cache entry", "conversation_id", id, "error", decodeErr)
		c.evict(ctx, id)
	case !stdErrors.Is(err, redis.Nil):
		c.log.Warn("Cache read failed", "conversation_id", id, "error", err)
	}

	conversation, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, conversation)
	return conversation, nil
}

func (c *ConversationCache) FindByParticipants(ctx context.Context, participantIDs []string) (*chat.Conversation, error) {
	return c.next.FindByParticipants(ctx, participantIDs)
}

func (c *ConversationCache) FindByUserID(ctx context.Context, userID string, page, limit int) (repositories.ConversationPage, error) {
	return c.next.FindByUserID(ctx, userID, page, limit)
}

func (c *ConversationCache) Save(ctx context.Context, conversation *chat.Conversation) error {
	if err := c.next.Save(ctx, conversation); err != nil {
		return err
	}
	c.put(ctx, conversation)
	return nil
}

// Update writes the new version through. A failed update leaves the entry
// alone: whoever won the race already cached a newer version.
func (c *ConversationCache) Update(ctx context.Context, previous, next *chat.Conversation) error {
	if err := c.next.Update(ctx, previous, next); err != nil {
		return err
	}
	c.put(ctx, next)
	return nil
}

func (c *ConversationCache) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.set(ctx, id, tombstoneVersion, []byte{})
	return nil
}

func (c *ConversationCache) put(ctx context.Context, conversation *chat.Conversation) {
	raw, err := repositories.EncodeConversation(conversation)
	if err != nil {
		c.log.Warn("Unable to encode conversation for cache", "conversation_id", conversation.ID(), "error", err)
		c.evict(ctx, conversation.ID())
		return
	}
	c.set(ctx, conversation.ID(), version(conversation), raw)
}

// set falls back to eviction when the guarded write fails, a missing entry
// being better than a stale one.
func (c *ConversationCache) set(ctx context.Context, id, v string, raw []byte) {
	err := c.store.Eval(ctx, setIfNewer, []string{c.key(id)}, v, raw, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.log.Warn("Cache write failed", "conversation_id", id, "error", err)
		c.evict(ctx, id)
	}
}

func (c *ConversationCache) evict(ctx context.Context, id string) {
	if err := c.store.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn("Cache eviction failed", "conversation_id", id, "error", err)
	}
}
