package domain

import (
	"context"
)

// UserRepository defines persistence operations for the user directory.
type UserRepository interface {
	// Upsert creates or updates the user keyed on its identity-provider
	// subject and fills in the local ID.
	Upsert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// RequestWithSender is an incoming request joined with the sender's profile.
type RequestWithSender struct {
	Request *FriendRequest `json:"request"`
	Sender  *User          `json:"sender"`
}

// RequestRepository persists pending friend requests and owns the accept
// transition, which must apply as one atomic unit.
type RequestRepository interface {
	Create(ctx context.Context, r *FriendRequest) error
	GetByID(ctx context.Context, id int64) (*FriendRequest, error)
	// Exists reports whether a pending request from sender to receiver exists.
	Exists(ctx context.Context, senderID, receiverID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	// Accept creates the backing direct conversation, the friendship
	// (userOne = receiver, userTwo = sender), both memberships, and deletes
	// the request, all in a single transaction.
	Accept(ctx context.Context, r *FriendRequest) (*Conversation, *Friendship, error)
	ListIncoming(ctx context.Context, receiverID int64) ([]*RequestWithSender, error)
}

// FriendshipRepository defines read operations over the friendship ledger.
// Creation happens through RequestRepository.Accept, deletion through
// ConversationRepository.DeleteCascade.
type FriendshipRepository interface {
	ListForUser(ctx context.Context, userID int64) ([]*Friendship, error)
	GetByConversation(ctx context.Context, conversationID int64) (*Friendship, error)
	// ExistsBetween is order-insensitive.
	ExistsBetween(ctx context.Context, userA, userB int64) (bool, error)
}

// ConversationRepository defines persistence operations for conversations.
type ConversationRepository interface {
	// Create inserts the conversation and one membership per member ID in a
	// single transaction. Duplicate member IDs collapse to one membership.
	Create(ctx context.Context, c *Conversation, memberIDs []int64) error
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	// DeleteCascade removes the conversation together with its friendship row
	// (if one references it), all memberships, and all messages, atomically.
	// The store does not cascade on its own; this is the only delete path.
	DeleteCascade(ctx context.Context, id int64) error
}

// MemberRepository defines operations around conversation memberships and the
// per-member read watermark.
type MemberRepository interface {
	Get(ctx context.Context, conversationID, userID int64) (*ConversationMember, error)
	ListByConversation(ctx context.Context, conversationID int64) ([]*ConversationMember, error)
	ListByUser(ctx context.Context, userID int64) ([]*ConversationMember, error)
	Count(ctx context.Context, conversationID int64) (int, error)
	Delete(ctx context.Context, membershipID int64) error
	// SetLastSeen moves the watermark; nil clears it.
	SetLastSeen(ctx context.Context, membershipID int64, messageID *int64) error
	// CountUnseen counts messages newer than the member's watermark that were
	// sent by someone else. A cleared watermark counts every foreign message.
	CountUnseen(ctx context.Context, conversationID, userID int64) (int, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	// Create inserts the message and advances the parent conversation's
	// last_message_id pointer in the same transaction.
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	// ListForConversation returns messages newest first.
	ListForConversation(ctx context.Context, conversationID int64) ([]*Message, error)
}
