package domain

import "time"

// Identity is the verified caller identity attached to every operation.
// Subject is the external identity-provider subject; Email is the primary
// email address the provider vouches for. A zero Identity means the caller
// presented no credentials.
type Identity struct {
	Subject string
	Email   string
}

// User represents an application user, synced from the identity provider.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"-"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FriendRequest is a pending directed request. At most one may exist per
// ordered (sender, receiver) pair; acceptance and denial are the only exits.
type FriendRequest struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Friendship is the symmetric relation between two users. The pair carries no
// canonical order. ConversationID references the backing direct conversation;
// the two live and die together.
type Friendship struct {
	ID             int64 `db:"id" json:"id"`
	UserOneID      int64 `db:"user_one_id" json:"user_one_id"`
	UserTwoID      int64 `db:"user_two_id" json:"user_two_id"`
	ConversationID int64 `db:"conversation_id" json:"conversation_id"`
}

// Conversation represents a chat conversation (direct or group).
// LastMessageID is a denormalized pointer advanced transactionally on every
// message insert; preview rendering depends on it being current.
type Conversation struct {
	ID            int64     `db:"id" json:"id"`
	Name          *string   `db:"name" json:"name,omitempty"`
	IsGroup       bool      `db:"is_group" json:"is_group"`
	LastMessageID *int64    `db:"last_message_id" json:"last_message_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ConversationMember links a user to a conversation and carries that user's
// read watermark. Unique per (member, conversation).
type ConversationMember struct {
	ID                int64  `db:"id" json:"id"`
	MemberID          int64  `db:"member_id" json:"member_id"`
	ConversationID    int64  `db:"conversation_id" json:"conversation_id"`
	LastSeenMessageID *int64 `db:"last_seen_message_id" json:"last_seen_message_id,omitempty"`
}

// MessageTypeText is the only message type rendered verbatim in previews;
// every other type shows a placeholder label.
const MessageTypeText = "text"

// Message is a single message within a conversation. IDs are monotonic per
// store, so ID order is creation order.
type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Type           string    `db:"type" json:"type"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
