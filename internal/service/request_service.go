package service

import (
	"context"
	"fmt"

	"convo/internal/domain"
)

// RequestService implements the friend request queue: pending directed
// requests between users, with accept/deny as the only exits.
type RequestService struct {
	users       domain.UserRepository
	requests    domain.RequestRepository
	friendships domain.FriendshipRepository
}

func NewRequestService(
	users domain.UserRepository,
	requests domain.RequestRepository,
	friendships domain.FriendshipRepository,
) *RequestService {
	return &RequestService{
		users:       users,
		requests:    requests,
		friendships: friendships,
	}
}

// Create sends a friend request to the user behind the given email.
func (s *RequestService) Create(ctx context.Context, ident domain.Identity, email string) (*domain.FriendRequest, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	if email == ident.Email {
		return nil, domain.Errorf("Can't friend yourself!")
	}

	receiver, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find receiver: %w", err)
	}
	if receiver == nil {
		return nil, domain.Errorf("User could not be found.")
	}

	alreadySent, err := s.requests.Exists(ctx, caller.ID, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("check outgoing request: %w", err)
	}
	if alreadySent {
		return nil, domain.Errorf("Request already sent.")
	}

	alreadyReceived, err := s.requests.Exists(ctx, receiver.ID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("check incoming request: %w", err)
	}
	if alreadyReceived {
		return nil, domain.Errorf("This user has already sent you a request. Go accept it!")
	}

	friends, err := s.friendships.ExistsBetween(ctx, caller.ID, receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return nil, domain.Errorf("You are already friends with this user.")
	}

	req := &domain.FriendRequest{SenderID: caller.ID, ReceiverID: receiver.ID}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Deny discards a pending request addressed to the caller.
func (s *RequestService) Deny(ctx context.Context, ident domain.Identity, requestID int64) error {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if req == nil || req.ReceiverID != caller.ID {
		return domain.Errorf("There was an error denying this request.")
	}

	return s.requests.Delete(ctx, req.ID)
}

// Accept turns a pending request addressed to the caller into a friendship
// with its backing direct conversation. The storage layer applies the whole
// transition atomically.
func (s *RequestService) Accept(ctx context.Context, ident domain.Identity, requestID int64) (*domain.Friendship, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil || req.ReceiverID != caller.ID {
		return nil, domain.Errorf("There was an error accepting this request.")
	}

	_, friendship, err := s.requests.Accept(ctx, req)
	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// ListIncoming returns pending requests addressed to the caller, each joined
// with the sender's profile.
func (s *RequestService) ListIncoming(ctx context.Context, ident domain.Identity) ([]*domain.RequestWithSender, error) {
	caller, err := resolveCaller(ctx, s.users, ident)
	if err != nil {
		return nil, err
	}
	return s.requests.ListIncoming(ctx, caller.ID)
}
