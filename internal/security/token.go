package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityVerifier validates tokens minted by the identity provider and
// extracts the caller identity from them. Tokens carry the provider subject
// in "sub" and the primary email in "email".
type IdentityVerifier struct {
	secret []byte
}

func NewIdentityVerifier(secret string) *IdentityVerifier {
	return &IdentityVerifier{secret: []byte(secret)}
}

var errInvalidToken = errors.New("invalid identity token")

// Verify validates the token and returns the subject and email claims.
func (v *IdentityVerifier) Verify(tokenStr string) (subject, email string, err error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", jwt.ErrSignatureInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenMalformed
	}
	subject, _ = claims["sub"].(string)
	email, _ = claims["email"].(string)
	if subject == "" {
		return "", "", errInvalidToken
	}
	return subject, email, nil
}

// Issue creates a token for the given subject and email. Production tokens
// come from the identity provider; this exists for tests and local tooling.
func (v *IdentityVerifier) Issue(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
