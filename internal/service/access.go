package service

import (
	"context"
	"fmt"

	"convo/internal/domain"
)

// resolveCaller maps the verified identity to the local user record. It is
// the authorization anchor for every operation: a missing identity or an
// unknown subject is domain.ErrUnauthorized, raised before any other
// validation so no domain detail leaks to anonymous callers.
func resolveCaller(ctx context.Context, users domain.UserRepository, ident domain.Identity) (*domain.User, error) {
	if ident.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := users.GetBySubject(ctx, ident.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
