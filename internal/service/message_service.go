package service

import (
	"context"
	"fmt"

	"convo/internal/domain"
)

// MessageService implements the message store operations.
type MessageService struct {
	users         domain.UserRepository
	conversations domain.ConversationRepository
	members       domain.MemberRepository
	messages      domain.MessageRepository
}

func NewMessageService(
	users domain.UserRepository,
	conversations domain.ConversationRepository,
	members domain.MemberRepository,
	messages domain.MessageRepository,
) *MessageService {
	return &MessageService{
		users:         users,
		conversations: conversations,
		members:       members,
		messages:      messages,
	}
}

type SendInput struct {
	ConversationID int64
	Type           string
	Content        string
}

// Send creates a message in a conversation the caller belongs to. The
// conversation's last-message pointer advances in the same storage
// transaction as the insert.
func (s *MessageService) Send(ctx context.Context, ident domain.Identity, in SendInput) (*domain.Message, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.GetByID(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return nil, domain.Errorf("Conversation not found.")
	}

	membership, err := s.members.Get(ctx, in.ConversationID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if membership == nil {
		return nil, domain.Errorf("You aren't a member of this conversation.")
	}

	if in.Content == "" {
		return nil, domain.Errorf("Message content cannot be empty.")
	}
	msgType := in.Type
	if msgType == "" {
		msgType = domain.MessageTypeText
	}

	msg := &domain.Message{
		ConversationID: in.ConversationID,
		SenderID:       caller.ID,
		Type:           msgType,
		Content:        in.Content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MessageWithSender is one list entry, joined with the sender's profile.
type MessageWithSender struct {
	Message       *domain.Message `json:"message"`
	SenderName    string          `json:"sender_name"`
	SenderImage   string          `json:"sender_image"`
	IsCurrentUser bool            `json:"is_current_user"`
}

// ListForConversation returns the conversation's messages newest first, each
// joined with the sender's profile and a sent-by-caller flag.
func (s *MessageService) ListForConversation(ctx context.Context, ident domain.Identity, conversationID int64) ([]*MessageWithSender, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	membership, err := s.members.Get(ctx, conversationID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if membership == nil {
		return nil, domain.Errorf("You aren't a member of this conversation.")
	}

	msgs, err := s.messages.ListForConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	res := make([]*MessageWithSender, 0, len(msgs))
	for _, m := range msgs {
		sender, err := s.users.GetByID(ctx, m.SenderID)
		if err != nil {
			return nil, fmt.Errorf("get sender: %w", err)
		}
		if sender == nil {
			return nil, domain.Errorf("Could not find message sender.")
		}
		res = append(res, &MessageWithSender{
			Message:       m,
			SenderName:    sender.Username,
			SenderImage:   sender.ImageURL,
			IsCurrentUser: sender.ID == caller.ID,
		})
	}
	return res, nil
}

// MemberIDs returns the user IDs of all conversation members, for realtime
// fan-out after a send.
func (s *MessageService) MemberIDs(ctx context.Context, conversationID int64) ([]int64, error) {
	memberships, err := s.members.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(memberships))
	for i, m := range memberships {
		ids[i] = m.MemberID
	}
	return ids, nil
}
