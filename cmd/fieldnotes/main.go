// Package main is the entry point for the Field Notes server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fieldnotes/internal/cache"
	"fieldnotes/internal/config"
	"fieldnotes/internal/database"
	"fieldnotes/internal/handlers"
	"fieldnotes/internal/lifecycle"
	"fieldnotes/internal/render"
	"fieldnotes/internal/router"
	"fieldnotes/internal/session"
	"fieldnotes/internal/storage"
	"fieldnotes/internal/store"
)

func main() {
	// A .env file is a development convenience; absence is fine.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// In dev mode, templates load assets from CDN; in production they use
	// compiled local files embedded in the binary.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Data stores.
	userStore := store.NewUserStore(db)
	documentStore := store.NewDocumentStore(db)
	revisionStore := store.NewRevisionStore(db)
	feedbackStore := store.NewFeedbackStore(db)
	mediaStore := store.NewMediaStore(db)
	taxonomyStore := store.NewTaxonomyStore(db)

	// S3-compatible object storage (optional — the app works without it,
	// with media uploads disabled).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	// Full-page HTML cache in Valkey.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// The editorial lifecycle service owns every state-changing transaction.
	service := lifecycle.NewService(db, documentStore, revisionStore, feedbackStore, mediaStore, taxonomyStore)

	// Handler groups.
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	editorHandlers := handlers.NewEditor(renderer, service, documentStore, revisionStore,
		feedbackStore, mediaStore, taxonomyStore, storageClient, pageCache)
	reviewHandlers := handlers.NewReview(renderer, service, documentStore, pageCache)
	mediaHandlers := handlers.NewMedia(documentStore, mediaStore, storageClient, pageCache)
	publicHandlers := handlers.NewPublic(renderer, documentStore, mediaStore, taxonomyStore, storageClient, pageCache)

	r := router.New(sessionStore, authHandlers, editorHandlers, reviewHandlers, mediaHandlers, publicHandlers, secureCookies)

	// WriteTimeout must accommodate media uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
