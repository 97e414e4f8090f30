package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WebhookVerifier checks the HMAC signatures the identity provider attaches
// to its sync webhooks. The scheme is the svix one: the secret is
// "whsec_<base64 key>", and the signature header holds space-separated
// "v1,<base64 mac>" entries over "<id>.<timestamp>.<payload>".
type WebhookVerifier struct {
	key []byte
	now func() time.Time
}

const webhookSecretPrefix = "whsec_"

// webhookTolerance bounds the accepted clock skew on the timestamp header.
const webhookTolerance = 5 * time.Minute

var (
	ErrInvalidWebhookSignature = errors.New("webhook signature mismatch")
	ErrWebhookTimestampSkew    = errors.New("webhook timestamp outside tolerance")
)

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	raw := strings.TrimPrefix(secret, webhookSecretPrefix)
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("webhook secret must not be empty")
	}
	return &WebhookVerifier{key: key, now: time.Now}, nil
}

// Verify checks the signature header against the message id, timestamp, and
// raw payload. Any matching v1 entry passes.
func (v *WebhookVerifier) Verify(msgID, timestamp string, payload []byte, signatureHeader string) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("parse webhook timestamp: %w", err)
	}
	skew := v.now().Sub(time.Unix(ts, 0))
	if skew > webhookTolerance || skew < -webhookTolerance {
		return ErrWebhookTimestampSkew
	}

	expected := v.Sign(msgID, timestamp, payload)
	for _, part := range strings.Fields(signatureHeader) {
		version, sig, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidWebhookSignature
}

// Sign computes the v1 signature for the given message. Exposed for tests
// and local tooling that replays provider events.
func (v *WebhookVerifier) Sign(msgID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
