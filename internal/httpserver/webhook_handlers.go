package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"convo/internal/security"
	"convo/internal/service"
)

// identityWebhookEvent is the wire shape of the provider's user-sync event.
type identityWebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// handleIdentityWebhook verifies the provider signature and applies
// user.created / user.updated events to the user directory. Other event
// types acknowledge without side effects.
func handleIdentityWebhook(verifier *security.WebhookVerifier, userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read payload"})
			return
		}

		if err := verifier.Verify(
			r.Header.Get("svix-id"),
			r.Header.Get("svix-timestamp"),
			payload,
			r.Header.Get("svix-signature"),
		); err != nil {
			log.Warn("identity webhook rejected", "err", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not validate identity payload"})
			return
		}

		var event identityWebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
			return
		}

		switch event.Type {
		case service.EventUserCreated, service.EventUserUpdated:
			var email string
			if len(event.Data.EmailAddresses) > 0 {
				email = event.Data.EmailAddresses[0].EmailAddress
			}
			err := userSvc.UpsertFromIdentityEvent(r.Context(), service.IdentityEvent{
				Type:         event.Type,
				Subject:      event.Data.ID,
				FirstName:    event.Data.FirstName,
				LastName:     event.Data.LastName,
				ImageURL:     event.Data.ImageURL,
				PrimaryEmail: email,
			})
			if err != nil {
				log.Error("identity sync failed", "subject", event.Data.ID, "err", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not sync user"})
				return
			}
			log.Info("identity synced", "type", event.Type, "subject", event.Data.ID)
		default:
			log.Debug("identity webhook event ignored", "type", event.Type)
		}

		w.WriteHeader(http.StatusOK)
	}
}
