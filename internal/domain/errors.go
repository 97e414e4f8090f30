package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the caller identity is missing or resolves
// to no local user. Handlers must check it before any other validation runs.
var ErrUnauthorized = errors.New("unauthorised")

// Error is a domain failure: a precondition on the target entities was
// violated (not found, uniqueness, ownership, membership). The reason is
// meant to be shown to the end user, unlike ErrUnauthorized which clients
// render as a sign-in redirect.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// Errorf builds a domain failure with a formatted reason.
func Errorf(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err is (or wraps) a domain failure.
func IsDomain(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
