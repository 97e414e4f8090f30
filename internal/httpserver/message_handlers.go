package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"convo/internal/service"
	"convo/internal/ws"
)

type messageSendRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func handleSendMessage(msgSvc *service.MessageService, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid conversation id"})
			return
		}

		var req messageSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		msg, err := msgSvc.Send(r.Context(), CallerIdentity(r), service.SendInput{
			ConversationID: id,
			Type:           req.Type,
			Content:        req.Content,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		// Realtime push is best effort; the message is already durable.
		if memberIDs, err := msgSvc.MemberIDs(r.Context(), id); err == nil {
			hub.Notify(memberIDs, ws.Event{Type: ws.EventNewMessage, Payload: msg})
		}

		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleListMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid conversation id"})
			return
		}

		msgs, err := msgSvc.ListForConversation(r.Context(), CallerIdentity(r), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}
