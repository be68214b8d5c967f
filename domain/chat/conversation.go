// Package chat contains the conversation and message aggregates.
// Aggregates are immutable: every transition returns a new instance and
// leaves the receiver untouched. No I/O happens in this package.
package chat

import (
	"chat-service/errors"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// now is the clock used to stamp transitions. Tests replace it.
var now = func() time.Time { return time.Now().UTC() }

type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
)

func (t ConversationType) IsValid() bool {
	return t == ConversationTypeDirect || t == ConversationTypeGroup
}

// ConversationProps is the primitive field set of a conversation, as stored
// by repositories. A nil expiry in UserMutedUntil or UserArchivedUntil means
// "no expiry".
type ConversationProps struct {
	ID                string
	Type              ConversationType
	ParticipantIDs    []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastMessageID     *string
	IsActive          *bool
	Name              *string
	Description       *string
	Avatar            *string
	AdminIDs          []string
	PinnedBy          []string
	MutedBy           []string
	ArchivedBy        []string
	UserMutedUntil    map[string]*time.Time
	UserArchivedUntil map[string]*time.Time
}

// Conversation is a direct or group chat thread with per-user overlay state
// (pin, mute, archive).
type Conversation struct {
	id                string
	kind              ConversationType
	participantIDs    []string
	createdAt         time.Time
	updatedAt         time.Time
	lastMessageID     *string
	isActive          bool
	name              *string
	description       *string
	avatar            *string
	adminIDs          userSet
	pinnedBy          userSet
	mutedBy           userSet
	archivedBy        userSet
	userMutedUntil    map[string]*time.Time
	userArchivedUntil map[string]*time.Time
}

// NewConversation validates props and builds a conversation.
func NewConversation(props ConversationProps) (*Conversation, error) {
	id := strings.TrimSpace(props.ID)
	if id == "" {
		return nil, errors.NewDomainError("Conversation ID is required.")
	}
	if !props.Type.IsValid() {
		return nil, errors.NewDomainError("Invalid conversation type.")
	}
	if len(props.ParticipantIDs) == 0 {
		return nil, errors.NewDomainError("Conversation participants required.")
	}

	createdAt := props.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}
	updatedAt := props.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now()
	}

	return &Conversation{
		id:                id,
		kind:              props.Type,
		participantIDs:    slices.Clone(props.ParticipantIDs),
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		lastMessageID:     cloneString(props.LastMessageID),
		isActive:          lo.FromPtrOr(props.IsActive, true),
		name:              trimmed(props.Name),
		description:       trimmed(props.Description),
		avatar:            cloneString(props.Avatar),
		adminIDs:          newUserSet(props.AdminIDs),
		pinnedBy:          newUserSet(props.PinnedBy),
		mutedBy:           newUserSet(props.MutedBy),
		archivedBy:        newUserSet(props.ArchivedBy),
		userMutedUntil:    cloneExpiries(props.UserMutedUntil),
		userArchivedUntil: cloneExpiries(props.UserArchivedUntil),
	}, nil
}

// ConversationFromPrimitives rehydrates a stored conversation.
// It runs the same validation as NewConversation.
func ConversationFromPrimitives(props ConversationProps) (*Conversation, error) {
	return NewConversation(props)
}

func (c *Conversation) ID() string                        { return c.id }
func (c *Conversation) Type() ConversationType            { return c.kind }
func (c *Conversation) ParticipantIDs() []string          { return slices.Clone(c.participantIDs) }
func (c *Conversation) CreatedAt() time.Time              { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time              { return c.updatedAt }
func (c *Conversation) IsActive() bool                    { return c.isActive }
func (c *Conversation) AdminIDs() []string                { return c.adminIDs.values() }
func (c *Conversation) PinnedBy() []string                { return c.pinnedBy.values() }
func (c *Conversation) MutedBy() []string                 { return c.mutedBy.values() }
func (c *Conversation) ArchivedBy() []string              { return c.archivedBy.values() }
func (c *Conversation) LastMessageID() (string, bool)     { return optional(c.lastMessageID) }
func (c *Conversation) Name() (string, bool)              { return optional(c.name) }
func (c *Conversation) Description() (string, bool)       { return optional(c.description) }
func (c *Conversation) Avatar() (string, bool)            { return optional(c.avatar) }
func (c *Conversation) IsPinnedBy(userID string) bool     { return c.pinnedBy.has(userID) }
func (c *Conversation) IsMutedBy(userID string) bool      { return c.mutedBy.has(userID) }
func (c *Conversation) IsArchivedBy(userID string) bool   { return c.archivedBy.has(userID) }
func (c *Conversation) IsAdmin(userID string) bool        { return c.adminIDs.has(userID) }
func (c *Conversation) IsGroup() bool                     { return c.kind == ConversationTypeGroup }
func (c *Conversation) IsDirect() bool                    { return c.kind == ConversationTypeDirect }
func (c *Conversation) HasParticipant(userID string) bool { return slices.Contains(c.participantIDs, userID) }

// MuteUntilForUser returns the mute expiry of a user. ok is false when the
// user has no expiry, either because they are not muted or muted indefinitely.
func (c *Conversation) MuteUntilForUser(userID string) (time.Time, bool) {
	return expiry(c.userMutedUntil, userID)
}

// ArchiveUntilForUser returns the archive expiry of a user.
func (c *Conversation) ArchiveUntilForUser(userID string) (time.Time, bool) {
	return expiry(c.userArchivedUntil, userID)
}

// GetOtherParticipant returns the peer of userID in a direct conversation.
func (c *Conversation) GetOtherParticipant(userID string) (string, bool) {
	if c.IsGroup() {
		return "", false
	}
	return lo.Find(c.participantIDs, func(id string) bool { return id != userID })
}

func (c *Conversation) WithLastMessage(messageID string) *Conversation {
	next := c.clone()
	next.lastMessageID = &messageID
	next.updatedAt = now()
	return next
}

func (c *Conversation) WithParticipantAdded(userID string) *Conversation {
	if c.HasParticipant(userID) {
		return c
	}
	next := c.clone()
	next.participantIDs = append(slices.Clone(c.participantIDs), userID)
	next.updatedAt = now()
	return next
}

// WithParticipantRemoved drops the user and every overlay entry they own.
// Removing the last participant fails.
func (c *Conversation) WithParticipantRemoved(userID string) (*Conversation, error) {
	if !c.HasParticipant(userID) {
		return c, nil
	}
	remaining := lo.Without(c.participantIDs, userID)
	if len(remaining) == 0 {
		return nil, errors.NewDomainError("Conversation participants required.")
	}
	next := c.clone()
	next.participantIDs = remaining
	next.adminIDs = c.adminIDs.without(userID)
	next.pinnedBy = c.pinnedBy.without(userID)
	next.mutedBy = c.mutedBy.without(userID)
	next.archivedBy = c.archivedBy.without(userID)
	next.userMutedUntil = withoutExpiry(c.userMutedUntil, userID)
	next.userArchivedUntil = withoutExpiry(c.userArchivedUntil, userID)
	next.updatedAt = now()
	return next, nil
}

func (c *Conversation) WithAdminAdded(userID string) *Conversation {
	if !c.HasParticipant(userID) || c.IsAdmin(userID) {
		return c
	}
	next := c.clone()
	next.adminIDs = c.adminIDs.with(userID)
	next.updatedAt = now()
	return next
}

func (c *Conversation) PinForUser(userID string) *Conversation {
	if c.pinnedBy.has(userID) {
		return c
	}
	next := c.clone()
	next.pinnedBy = c.pinnedBy.with(userID)
	next.updatedAt = now()
	return next
}

func (c *Conversation) UnpinForUser(userID string) *Conversation {
	if !c.pinnedBy.has(userID) {
		return c
	}
	next := c.clone()
	next.pinnedBy = c.pinnedBy.without(userID)
	next.updatedAt = now()
	return next
}

// MuteForUser mutes the conversation for userID until the given time, or
// indefinitely when until is nil. Muting again with the same expiry is a no-op.
func (c *Conversation) MuteForUser(userID string, until *time.Time) *Conversation {
	if c.mutedBy.has(userID) && sameExpiry(c.userMutedUntil[userID], until) {
		return c
	}
	next := c.clone()
	next.mutedBy = c.mutedBy.with(userID)
	next.userMutedUntil = withExpiry(c.userMutedUntil, userID, until)
	next.updatedAt = now()
	return next
}

func (c *Conversation) UnmuteForUser(userID string) *Conversation {
	if !c.mutedBy.has(userID) {
		return c
	}
	next := c.clone()
	next.mutedBy = c.mutedBy.without(userID)
	next.userMutedUntil = withoutExpiry(c.userMutedUntil, userID)
	next.updatedAt = now()
	return next
}

// ArchiveForUser archives the conversation for userID. The archive expiry is
// kept apart from the mute expiry.
func (c *Conversation) ArchiveForUser(userID string, until *time.Time) *Conversation {
	if c.archivedBy.has(userID) && sameExpiry(c.userArchivedUntil[userID], until) {
		return c
	}
	next := c.clone()
	next.archivedBy = c.archivedBy.with(userID)
	next.userArchivedUntil = withExpiry(c.userArchivedUntil, userID, until)
	next.updatedAt = now()
	return next
}

func (c *Conversation) UnarchiveForUser(userID string) *Conversation {
	if !c.archivedBy.has(userID) {
		return c
	}
	next := c.clone()
	next.archivedBy = c.archivedBy.without(userID)
	next.userArchivedUntil = withoutExpiry(c.userArchivedUntil, userID)
	next.updatedAt = now()
	return next
}

// ToProps returns the primitive field set. The result shares no memory with
// the conversation.
func (c *Conversation) ToProps() ConversationProps {
	return ConversationProps{
		ID:                c.id,
		Type:              c.kind,
		ParticipantIDs:    slices.Clone(c.participantIDs),
		CreatedAt:         c.createdAt,
		UpdatedAt:         c.updatedAt,
		LastMessageID:     cloneString(c.lastMessageID),
		IsActive:          lo.ToPtr(c.isActive),
		Name:              cloneString(c.name),
		Description:       cloneString(c.description),
		Avatar:            cloneString(c.avatar),
		AdminIDs:          c.adminIDs.values(),
		PinnedBy:          c.pinnedBy.values(),
		MutedBy:           c.mutedBy.values(),
		ArchivedBy:        c.archivedBy.values(),
		UserMutedUntil:    cloneExpiries(c.userMutedUntil),
		UserArchivedUntil: cloneExpiries(c.userArchivedUntil),
	}
}

// clone is a shallow copy. Slices, sets and maps are shared until a
// transition replaces them, which is safe since none is ever written in place.
func (c *Conversation) clone() *Conversation {
	next := *c
	return &next
}

func expiry(m map[string]*time.Time, userID string) (time.Time, bool) {
	until, ok := m[userID]
	if !ok || until == nil {
		return time.Time{}, false
	}
	return *until, true
}

func sameExpiry(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func withExpiry(m map[string]*time.Time, userID string, until *time.Time) map[string]*time.Time {
	out := cloneExpiries(m)
	if until != nil {
		out[userID] = lo.ToPtr(*until)
	} else {
		out[userID] = nil
	}
	return out
}

func withoutExpiry(m map[string]*time.Time, userID string) map[string]*time.Time {
	out := cloneExpiries(m)
	delete(out, userID)
	return out
}

func cloneExpiries(m map[string]*time.Time) map[string]*time.Time {
	out := make(map[string]*time.Time, len(m))
	for userID, until := range m {
		if until != nil {
			out[userID] = lo.ToPtr(*until)
		} else {
			out[userID] = nil
		}
	}
	return out
}

func optional(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	return lo.ToPtr(*s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return lo.ToPtr(strings.TrimSpace(*s))
}
