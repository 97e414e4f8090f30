package security

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testWebhookVerifier(t *testing.T, at time.Time) *WebhookVerifier {
	t.Helper()
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("webhook-test-key"))
	v, err := NewWebhookVerifier(secret)
	require.NoError(t, err)
	v.now = func() time.Time { return at }
	return v
}

func TestWebhookVerifySignedPayload(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	v := testWebhookVerifier(t, at)

	payload := []byte(`{"type":"user.created"}`)
	ts := strconv.FormatInt(at.Unix(), 10)
	header := "v1," + v.Sign("msg_1", ts, payload)

	require.NoError(t, v.Verify("msg_1", ts, payload, header))
}

func TestWebhookVerifyAcceptsAnyMatchingEntry(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	v := testWebhookVerifier(t, at)

	payload := []byte(`{}`)
	ts := strconv.FormatInt(at.Unix(), 10)
	// Providers send old-key signatures alongside the current one during
	// secret rotation.
	header := "v1,bm90LXRoZS1yaWdodC1tYWM= v1," + v.Sign("msg_1", ts, payload)

	require.NoError(t, v.Verify("msg_1", ts, payload, header))
}

func TestWebhookVerifyRejectsTamperedPayload(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	v := testWebhookVerifier(t, at)

	ts := strconv.FormatInt(at.Unix(), 10)
	header := "v1," + v.Sign("msg_1", ts, []byte(`{"a":1}`))

	err := v.Verify("msg_1", ts, []byte(`{"a":2}`), header)
	require.ErrorIs(t, err, ErrInvalidWebhookSignature)

	// A different message id fails too: the id is part of the signed content.
	err = v.Verify("msg_2", ts, []byte(`{"a":1}`), header)
	require.ErrorIs(t, err, ErrInvalidWebhookSignature)
}

func TestWebhookVerifyRejectsStaleTimestamp(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	v := testWebhookVerifier(t, at)

	payload := []byte(`{}`)
	stale := strconv.FormatInt(at.Add(-6*time.Minute).Unix(), 10)
	header := "v1," + v.Sign("msg_1", stale, payload)

	err := v.Verify("msg_1", stale, payload, header)
	require.ErrorIs(t, err, ErrWebhookTimestampSkew)

	future := strconv.FormatInt(at.Add(6*time.Minute).Unix(), 10)
	err = v.Verify("msg_1", future, payload, "v1,"+v.Sign("msg_1", future, payload))
	require.ErrorIs(t, err, ErrWebhookTimestampSkew)
}

func TestNewWebhookVerifierRejectsBadSecret(t *testing.T) {
	_, err := NewWebhookVerifier("whsec_%%%")
	require.Error(t, err)

	_, err = NewWebhookVerifier("whsec_")
	require.Error(t, err)
}
