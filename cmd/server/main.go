package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"convo/internal/config"
	"convo/internal/httpserver"
	"convo/internal/security"
	"convo/internal/store/sqlite"
	"convo/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to open database", "err", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", "err", err)
	}

	verifier := security.NewIdentityVerifier(cfg.IdentitySecret)
	webhookVerifier, err := security.NewWebhookVerifier(cfg.WebhookSecret)
	if err != nil {
		log.Fatal("failed to initialize webhook verifier", "err", err)
	}

	hub := ws.NewHub()

	router := httpserver.NewRouter(cfg, db, hub, verifier, webhookVerifier)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting server", "app", cfg.AppName, "addr", cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}
