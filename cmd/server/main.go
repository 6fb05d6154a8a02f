// AI social content creator server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/doguseltetik/ai-social-content-creator/internal/api"
	"github.com/doguseltetik/ai-social-content-creator/internal/config"
	"github.com/doguseltetik/ai-social-content-creator/internal/identity"
	"github.com/doguseltetik/ai-social-content-creator/internal/middleware"
	"github.com/doguseltetik/ai-social-content-creator/internal/persona"
	"github.com/doguseltetik/ai-social-content-creator/internal/pipeline"
	"github.com/doguseltetik/ai-social-content-creator/internal/session"
	"github.com/doguseltetik/ai-social-content-creator/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	catalog, err := persona.NewCatalog()
	if err != nil {
		slog.Error("Failed to load persona catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Persona catalog loaded", "personas", len(catalog.List()))

	// Collaborator client is optional; without a credential every pipeline
	// operation degrades to a configuration error instead of crashing.
	var text pipeline.TextGenerator
	var images pipeline.ImageGenerator
	if cfg.OpenAIAPIKey != "" {
		client := pipeline.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.ImageModel)
		text = client
		images = client
		slog.Info("Collaborator client configured", "chat_model", cfg.ChatModel, "image_model", cfg.ImageModel)
	} else {
		slog.Warn("OPENAI_API_KEY not set, generation endpoints will report a configuration error")
	}

	pipe := pipeline.New(text, images, pipeline.Options{
		AppBaseURL:    cfg.AppBaseURL,
		ImagesEnabled: cfg.ImageGenerationEnabled,
		CallTimeout:   cfg.CollaboratorTimeout,
	})

	sessions := session.NewService(repo, catalog, pipe)

	// Initialize handlers.
	contentHandler := api.NewContentHandler(catalog, pipe)
	sessionHandler := api.NewSessionHandler(sessions)
	healthHandler := api.NewHealthHandler(repo)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	corsOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	healthHandler.RegisterHealth(r)
	contentHandler.RegisterRoutes(r)
	sessionHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.CollaboratorTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartCleanupWorker(ctx, repo, cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
