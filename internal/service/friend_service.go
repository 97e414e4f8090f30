package service

import (
	"context"
	"fmt"

	"convo/internal/domain"
)

// FriendService implements the friendship ledger.
type FriendService struct {
	users         domain.UserRepository
	friendships   domain.FriendshipRepository
	conversations domain.ConversationRepository
	members       domain.MemberRepository
}

func NewFriendService(
	users domain.UserRepository,
	friendships domain.FriendshipRepository,
	conversations domain.ConversationRepository,
	members domain.MemberRepository,
) *FriendService {
	return &FriendService{
		users:         users,
		friendships:   friendships,
		conversations: conversations,
		members:       members,
	}
}

// List resolves every friendship of the caller to the other user in the pair.
// Order follows the underlying ledger (insertion order).
func (s *FriendService) List(ctx context.Context, ident domain.Identity) ([]*domain.User, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	friendships, err := s.friendships.ListForUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	friends := make([]*domain.User, 0, len(friendships))
	for _, f := range friendships {
		otherID := f.UserOneID
		if otherID == caller.ID {
			otherID = f.UserTwoID
		}
		friend, err := s.users.GetByID(ctx, otherID)
		if err != nil {
			return nil, fmt.Errorf("get friend: %w", err)
		}
		if friend == nil {
			return nil, domain.Errorf("Friend could not be found.")
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

// Remove dissolves the friendship backed by the given direct conversation,
// deleting the conversation, the friendship, both memberships, and every
// message in one atomic cascade. This is the only path that hard-deletes
// message history.
func (s *FriendService) Remove(ctx context.Context, ident domain.Identity, conversationID int64) error {
	_, err := resolveCaller(ctx, s.users, ident)
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

	count, err := s.members.Count(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("count memberships: %w", err)
	}
	if count != 2 {
		return domain.Errorf("This conversation does not have any members.")
	}

	friendship, err := s.friendships.GetByConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("get friendship: %w", err)
	}
	if friendship == nil {
		return domain.Errorf("Friendship could not be found.")
	}

	return s.conversations.DeleteCascade(ctx, conversationID)
}
