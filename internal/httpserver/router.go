package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"convo/internal/config"
	"convo/internal/domain"
	"convo/internal/security"
	"convo/internal/service"
	"convo/internal/store/sqlite"
	"convo/internal/ws"
)

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(
	cfg *config.Config,
	db *sql.DB,
	hub *ws.Hub,
	verifier *security.IdentityVerifier,
	webhookVerifier *security.WebhookVerifier,
) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	userRepo := sqlite.NewUserRepo(db)
	requestRepo := sqlite.NewRequestRepo(db)
	friendRepo := sqlite.NewFriendRepo(db)
	convRepo := sqlite.NewConversationRepo(db)
	memberRepo := sqlite.NewMemberRepo(db)
	msgRepo := sqlite.NewMessageRepo(db)

	// Services
	userSvc := service.NewUserService(userRepo)
	reqSvc := service.NewRequestService(userRepo, requestRepo, friendRepo)
	friendSvc := service.NewFriendService(userRepo, friendRepo, convRepo, memberRepo)
	convSvc := service.NewConversationService(userRepo, convRepo, memberRepo, msgRepo)
	msgSvc := service.NewMessageService(userRepo, convRepo, memberRepo, msgRepo)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Identity provider sync; signature-verified, no bearer auth.
	r.Post("/webhooks/identity", handleIdentityWebhook(webhookVerifier, userSvc))

	// Operation surface
	r.Route("/api", func(r chi.Router) {
		r.Use(IdentityMiddleware(verifier))

		r.Get("/me", handleMe(userSvc))

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", handleCreateRequest(reqSvc))
			r.Get("/", handleListIncomingRequests(reqSvc))
			r.Post("/{requestID}/accept", handleAcceptRequest(reqSvc))
			r.Post("/{requestID}/deny", handleDenyRequest(reqSvc))
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", handleListFriends(friendSvc))
			r.Delete("/{conversationID}", handleRemoveFriend(friendSvc))
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", handleCreateGroup(convSvc))
			r.Get("/", handleListConversations(convSvc))
			r.Get("/{conversationID}", handleGetConversation(convSvc))
			r.Delete("/{conversationID}", handleDeleteGroup(convSvc))
			r.Post("/{conversationID}/leave", handleLeaveGroup(convSvc))
			r.Post("/{conversationID}/read", handleMarkConversationRead(convSvc))
			r.Get("/{conversationID}/messages", handleListMessages(msgSvc))
			r.Post("/{conversationID}/messages", handleSendMessage(msgSvc, hub))
		})
	})

	// WebSocket endpoint
	r.Get("/ws", ws.MakeHandler(hub, verifier, userRepo, cfg.CORSOrigins))

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeServiceError maps the two failure kinds onto HTTP statuses: 401 for
// authorization failures so clients redirect to sign-in, 400 with the reason
// for domain failures so clients render it inline.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorised"})
	case domain.IsDomain(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Error("operation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
