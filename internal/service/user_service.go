package service

import (
	"context"
	"strings"

	"convo/internal/domain"
)

// UserService is the user directory: it maps identity-provider subjects to
// local user records.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// Identity event types this layer reacts to; anything else is a no-op.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
)

// IdentityEvent is the inbound user-sync event, already signature-verified by
// the transport layer.
type IdentityEvent struct {
	Type         string
	Subject      string
	FirstName    string
	LastName     string
	ImageURL     string
	PrimaryEmail string
}

// UpsertFromIdentityEvent creates or updates the user row keyed on the
// provider subject. Idempotent; unsupported event types are ignored.
func (s *UserService) UpsertFromIdentityEvent(ctx context.Context, ev IdentityEvent) error {
	switch ev.Type {
	case EventUserCreated, EventUserUpdated:
	default:
		return nil
	}

	user := &domain.User{
		Subject:  ev.Subject,
		Username: strings.TrimSpace(ev.FirstName + " " + ev.LastName),
		Email:    ev.PrimaryEmail,
		ImageURL: ev.ImageURL,
	}
	return s.users.Upsert(ctx, user)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, ident domain.Identity) (*domain.User, error) {
	return resolveCaller(ctx, s.users, ident)
}
