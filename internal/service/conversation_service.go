package service

import (
	"context"
	"fmt"

	"convo/internal/domain"
)

// ConversationService implements the conversation store plus the read-side
// joins (other-member resolution, unseen counts, last-message previews).
type ConversationService struct {
	users         domain.UserRepository
	conversations domain.ConversationRepository
	members       domain.MemberRepository
	messages      domain.MessageRepository
}

func NewConversationService(
	users domain.UserRepository,
	conversations domain.ConversationRepository,
	members domain.MemberRepository,
	messages domain.MessageRepository,
) *ConversationService {
	return &ConversationService{
		users:         users,
		conversations: conversations,
		members:       members,
		messages:      messages,
	}
}

// nonTextPlaceholder stands in for message payloads that aren't plain text.
const nonTextPlaceholder = "[Non-text message]"

func previewContent(msgType, content string) string {
	switch msgType {
	case domain.MessageTypeText:
		return content
	default:
		return nonTextPlaceholder
	}
}

// ConversationDetail is the single-conversation view. Exactly one of the two
// concrete types below is returned, depending on the conversation kind.
type ConversationDetail interface {
	detail()
}

// DirectMember is the other side of a direct conversation, together with that
// member's own read watermark (the caller sees how far the peer has read).
type DirectMember struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	ImageURL          string `json:"image_url"`
	LastSeenMessageID *int64 `json:"last_seen_message_id,omitempty"`
}

// DirectConversationDetail is the detail view of a two-member conversation.
type DirectConversationDetail struct {
	Conversation *domain.Conversation `json:"conversation"`
	OtherMember  DirectMember         `json:"other_member"`
}

func (*DirectConversationDetail) detail() {}

// GroupMember is the minimal profile shown for each other group member.
type GroupMember struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// GroupConversationDetail is the detail view of a group conversation.
type GroupConversationDetail struct {
	Conversation *domain.Conversation `json:"conversation"`
	OtherMembers []GroupMember        `json:"other_members"`
}

func (*GroupConversationDetail) detail() {}

// MessagePreview is the last-message line shown in the conversation list.
type MessagePreview struct {
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

// ConversationSummary is one conversation-list entry. OtherMember is set for
// direct conversations only.
type ConversationSummary struct {
	Conversation *domain.Conversation `json:"conversation"`
	LastMessage  *MessagePreview      `json:"last_message,omitempty"`
	UnseenCount  int                  `json:"unseen_count"`
	OtherMember  *domain.User         `json:"other_member,omitempty"`
}

// CreateGroup creates a group conversation with the given members plus the
// caller. Duplicate and repeated-caller IDs collapse to one membership each.
func (s *ConversationService) CreateGroup(ctx context.Context, ident domain.Identity, name string, memberIDs []int64) (*domain.Conversation, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	unique := make([]int64, 0, len(memberIDs)+1)
	seen := map[int64]struct{}{caller.ID: {}}
	unique = append(unique, caller.ID)
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	conv := &domain.Conversation{Name: &name, IsGroup: true}
	if err := s.conversations.Create(ctx, conv, unique); err != nil {
		return nil, err
	}
	return conv, nil
}

// DeleteGroup deletes a group conversation with all memberships and messages.
// The caller must hold a membership in it.
func (s *ConversationService) DeleteGroup(ctx context.Context, ident domain.Identity, conversationID int64) error {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return err
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return domain.Errorf("Conversation not found.")
	}

	membership, err := s.members.Get(ctx, conversationID, caller.ID)
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}
	if membership == nil {
		return domain.Errorf("You aren't a member of this conversation.")
	}

	count, err := s.members.Count(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("count memberships: %w", err)
	}
	if count <= 1 {
		return domain.Errorf("This conversation does not have any members.")
	}

	return s.conversations.DeleteCascade(ctx, conversationID)
}

// LeaveGroup removes only the caller's membership.
func (s *ConversationService) LeaveGroup(ctx context.Context, ident domain.Identity, conversationID int64) error {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return err
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return domain.Errorf("Conversation not found.")
	}

	membership, err := s.members.Get(ctx, conversationID, caller.ID)
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}
	if membership == nil {
		return domain.Errorf("You are not a member of this group.")
	}

	return s.members.Delete(ctx, membership.ID)
}

// MarkRead moves the caller's watermark to the given message, or clears it
// when the message no longer exists.
func (s *ConversationService) MarkRead(ctx context.Context, ident domain.Identity, conversationID, messageID int64) error {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return err
	}

	membership, err := s.members.Get(ctx, conversationID, caller.ID)
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}
	if membership == nil {
		return domain.Errorf("You are not a member of this group.")
	}

	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("get message: %w", err)
	}
	var watermark *int64
	if msg != nil {
		watermark = &msg.ID
	}
	return s.members.SetLastSeen(ctx, membership.ID, watermark)
}

// Get returns the detail view of one conversation the caller belongs to:
// the other member's profile and watermark for direct conversations, the
// other members' minimal profiles for groups.
func (s *ConversationService) Get(ctx context.Context, ident domain.Identity, conversationID int64) (ConversationDetail, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return nil, domain.Errorf("Conversation not found.")
	}

	membership, err := s.members.Get(ctx, conversationID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if membership == nil {
		return nil, domain.Errorf("You aren't a member of this conversation.")
	}

	all, err := s.members.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.IsGroup {
		var other *domain.ConversationMember
		for _, m := range all {
			if m.MemberID != caller.ID {
				other = m
				break
			}
		}
		if other == nil {
			return nil, domain.Errorf("Member could not be found.")
		}
		otherUser, err := s.users.GetByID(ctx, other.MemberID)
		if err != nil {
			return nil, fmt.Errorf("get member: %w", err)
		}
		if otherUser == nil {
			return nil, domain.Errorf("Member could not be found.")
		}
		return &DirectConversationDetail{
			Conversation: conv,
			OtherMember: DirectMember{
				ID:                otherUser.ID,
				Username:          otherUser.Username,
				Email:             otherUser.Email,
				ImageURL:          otherUser.ImageURL,
				LastSeenMessageID: other.LastSeenMessageID,
			},
		}, nil
	}

	others := make([]GroupMember, 0, len(all)-1)
	for _, m := range all {
		if m.MemberID == caller.ID {
			continue
		}
		member, err := s.users.GetByID(ctx, m.MemberID)
		if err != nil {
			return nil, fmt.Errorf("get member: %w", err)
		}
		if member == nil {
			return nil, domain.Errorf("Member could not be found.")
		}
		others = append(others, GroupMember{ID: member.ID, Username: member.Username})
	}
	return &GroupConversationDetail{Conversation: conv, OtherMembers: others}, nil
}

// ListForUser returns one summary per conversation the caller belongs to:
// last-message preview, unseen count, and the other member for direct chats.
func (s *ConversationService) ListForUser(ctx context.Context, ident domain.Identity) ([]*ConversationSummary, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	memberships, err := s.members.ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ConversationSummary, 0, len(memberships))
	for _, membership := range memberships {
		conv, err := s.conversations.GetByID(ctx, membership.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("get conversation: %w", err)
		}
		if conv == nil {
			return nil, domain.Errorf("Conversation could not be found.")
		}

		preview, err := s.lastMessagePreview(ctx, conv)
		if err != nil {
			return nil, err
		}

		unseen, err := s.members.CountUnseen(ctx, conv.ID, caller.ID)
		if err != nil {
			return nil, err
		}

		summary := &ConversationSummary{
			Conversation: conv,
			LastMessage:  preview,
			UnseenCount:  unseen,
		}

		if !conv.IsGroup {
			all, err := s.members.ListByConversation(ctx, conv.ID)
			if err != nil {
				return nil, err
			}
			for _, m := range all {
				if m.MemberID == caller.ID {
					continue
				}
				other, err := s.users.GetByID(ctx, m.MemberID)
				if err != nil {
					return nil, fmt.Errorf("get member: %w", err)
				}
				summary.OtherMember = other
				break
			}
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// lastMessagePreview resolves the denormalized pointer to a preview line.
// A nil pointer, a vanished message, or a vanished sender all render as no
// preview rather than an error.
func (s *ConversationService) lastMessagePreview(ctx context.Context, conv *domain.Conversation) (*MessagePreview, error) {
	if conv.LastMessageID == nil {
		return nil, nil
	}
	msg, err := s.messages.GetByID(ctx, *conv.LastMessageID)
	if err != nil {
		return nil, fmt.Errorf("get last message: %w", err)
	}
	if msg == nil {
		return nil, nil
	}
	sender, err := s.users.GetByID(ctx, msg.SenderID)
	if err != nil {
		return nil, fmt.Errorf("get sender: %w", err)
	}
	if sender == nil {
		return nil, nil
	}
	return &MessagePreview{
		Content: previewContent(msg.Type, msg.Content),
		Sender:  sender.Username,
	}, nil
}
