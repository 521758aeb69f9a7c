package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/assistant"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/llm"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env", "error", err)
	}
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Warnings, errors and audit events also go to system_logs
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	logging.Setup(dbLogHandler)

	// Sessions: one active token per user
	var sessions session.Store
	var sweeper logging.ExpiredSessionSweeper
	switch cfg.SessionStore {
	case "db":
		dbStore := session.NewDBStore(database.DB)
		sessions, sweeper = dbStore, dbStore
	default:
		memStore := session.NewMemoryStore(10 * time.Minute)
		defer memStore.Stop()
		sessions = memStore
	}
	slog.Info("session store ready", "kind", cfg.SessionStore)

	// Log and session cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, sweeper, cleanupDone)

	// Mail
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.MailEnabled() {
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailReplyTo)
	} else {
		slog.Warn("SMTP_HOST not set, emails are only logged")
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.MailInterval)

	store, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		slog.Error("upload directory unavailable", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	kb, err := assistant.Load()
	if err != nil {
		slog.Error("failed to load assistant knowledge base", "error", err)
		os.Exit(1)
	}
	completer := llm.FromConfig(cfg)
	if !completer.Configured() {
		slog.Warn("no AI provider configured, assistant uses canned answers")
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg, sessions)
	tramiteService := services.NewTramiteService(database.DB)
	reservaService := services.NewReservaService(database.DB, dispatcher)
	documentoService := services.NewDocumentoService(database.DB, store, cfg.MaxUploadBytes())
	municipalService := services.NewMunicipalService(database.DB)
	assistantService := services.NewAssistantService(database.DB, kb, completer, municipalService, services.NewModerationService())
	settingsService := services.NewSettingsService(database.DB)
	notificationService := services.NewNotificationService(dispatcher)

	// Seed catalogue, FAQs and public settings
	ctx := context.Background()
	slog.Info("seeding defaults")
	if err := tramiteService.SeedDefaults(ctx); err != nil {
		slog.Error("failed to seed tramites", "error", err)
	}
	if err := assistantService.SeedFAQs(ctx); err != nil {
		slog.Error("failed to seed faqs", "error", err)
	}
	if err := settingsService.SeedDefaults(ctx, cfg.MaxUploadMB); err != nil {
		slog.Error("failed to seed settings", "error", err)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	prod := cfg.IsProduction()
	app := routes.NewApp(cfg)
	routes.Setup(app, cfg, sessions, routes.Handlers{
		Auth:           handlers.NewAuthHandler(authService, prod),
		Health:         handlers.NewHealthHandler(database.DB),
		Settings:       handlers.NewSettingsHandler(settingsService, prod),
		Legal:          handlers.NewLegalHandler(settingsService),
		Tramites:       handlers.NewTramiteHandler(tramiteService, prod),
		Reservas:       handlers.NewReservaHandler(reservaService, prod),
		Documentos:     handlers.NewDocumentoHandler(documentoService, prod),
		Municipal:      handlers.NewMunicipalHandler(municipalService, prod),
		AI:             handlers.NewAIHandler(assistantService, prod),
		Notificaciones: handlers.NewNotificacionHandler(notificationService, prod),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dispatcher.Close()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
