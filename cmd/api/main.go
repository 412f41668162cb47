// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

// Command api is the entry point for the Contactio HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire mail, upload, token and domain services.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/dkovalov/contactio/internal/api"
	"github.com/dkovalov/contactio/internal/contacts"
	"github.com/dkovalov/contactio/internal/platform/config"
	"github.com/dkovalov/contactio/internal/platform/constants"
	"github.com/dkovalov/contactio/internal/platform/mail"
	"github.com/dkovalov/contactio/internal/platform/migration"
	pgstore "github.com/dkovalov/contactio/internal/platform/postgres"
	redisstore "github.com/dkovalov/contactio/internal/platform/redis"
	"github.com/dkovalov/contactio/internal/platform/sec"
	"github.com/dkovalov/contactio/internal/platform/upload"
	"github.com/dkovalov/contactio/internal/users/account"
	"github.com/dkovalov/contactio/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Long-lived context for background goroutines (rate-limiter cleanup).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	var mailer mail.Mailer
	if cfg.MailHost != "" {
		smtpMailer, err := mail.NewSMTPMailer(mail.Config{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
			BaseURL:  cfg.BaseURL,
		}, log)
		must(log, err, "initialize smtp mailer")
		mailer = smtpMailer
	} else {
		log.Warn("mail_disabled_no_smtp_configured")
		mailer = mail.NewNoopMailer(log)
	}

	var uploader upload.AvatarUploader
	if cfg.CloudinaryName != "" {
		cloudinaryUploader, err := upload.NewCloudinaryUploader(
			cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, log)
		must(log, err, "initialize cloudinary uploader")
		uploader = cloudinaryUploader
	} else {
		log.Warn("avatar_uploads_disabled_no_cloudinary_configured")
		uploader = upload.NewDisabledUploader(log)
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness, healthchecker := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		QueryDatabase: func() error {
			var one int
			return pool.QueryRow(context.Background(), "SELECT 1").Scan(&one)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	refreshTokenRepository := auth.NewRefreshTokenRepository(pool)
	sessionCache := auth.NewSessionCache(rdb)

	authService := auth.NewService(
		userRepository,
		refreshTokenRepository,
		sessionCache,
		tokenService,
		mailer,
		cfg.AccessTokenTTL(),
		cfg.RefreshTokenTTL(),
		log,
	)
	authHandler := auth.NewHandler(authService)

	accountService := account.NewService(
		userRepository,
		tokenService,
		authService,
		uploader,
		cfg.AvatarAdminOnly,
		log,
	)
	accountHandler := account.NewHandler(accountService)

	contactRepository := contacts.NewContactRepository(pool)
	contactService := contacts.NewService(contactRepository, log)
	contactHandler := contacts.NewHandler(contactService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:      liveness,
		Readiness:     readiness,
		Healthchecker: healthchecker,
		Auth:          authHandler,
		Account:       accountHandler,
		Contacts:      contactHandler,
	}

	server := api.NewServer(appCtx, cfg, log, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
