package httpserver

import (
	"context"
	"net/http"
	"strings"

	"convo/internal/domain"
	"convo/internal/security"
)

type contextKey string

const identityContextKey contextKey = "callerIdentity"

// WithIdentity returns a new context carrying the verified caller identity.
func WithIdentity(ctx context.Context, ident domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, ident)
}

// CallerIdentity extracts the caller identity from the request context.
// The zero Identity means the request was not authenticated.
func CallerIdentity(r *http.Request) domain.Identity {
	if v := r.Context().Value(identityContextKey); v != nil {
		if ident, ok := v.(domain.Identity); ok {
			return ident
		}
	}
	return domain.Identity{}
}

// IdentityMiddleware validates the Bearer token and attaches the verified
// identity to the context. Resolving the identity to a local user is the
// services' job: an unknown subject must fail as unauthorized inside the
// operation, not as a routing concern.
func IdentityMiddleware(verifier *security.IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid Authorization header"})
				return
			}
			tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

			subject, email, err := verifier.Verify(tokenStr)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			ctx := WithIdentity(r.Context(), domain.Identity{Subject: subject, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
