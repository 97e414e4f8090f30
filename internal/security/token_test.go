package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	v := NewIdentityVerifier("test-secret")

	token, err := v.Issue("sub_123", "user@example.com", time.Hour)
	require.NoError(t, err)

	subject, email, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "sub_123", subject)
	require.Equal(t, "user@example.com", email)
}

func TestTokenRejectsWrongKey(t *testing.T) {
	token, err := NewIdentityVerifier("key-one").Issue("sub_123", "user@example.com", time.Hour)
	require.NoError(t, err)

	_, _, err = NewIdentityVerifier("key-two").Verify(token)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	v := NewIdentityVerifier("test-secret")

	token, err := v.Issue("sub_123", "user@example.com", -time.Minute)
	require.NoError(t, err)

	_, _, err = v.Verify(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRequiresSubject(t *testing.T) {
	v := NewIdentityVerifier("test-secret")

	claims := jwt.MapClaims{"email": "user@example.com"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = v.Verify(token)
	require.ErrorIs(t, err, errInvalidToken)
}

func TestTokenRejectsUnsignedAlgorithm(t *testing.T) {
	v := NewIdentityVerifier("test-secret")

	claims := jwt.MapClaims{"sub": "sub_123"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = v.Verify(token)
	require.Error(t, err)
}
