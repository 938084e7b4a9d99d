package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"ourhour/config"
	_ "ourhour/docs"
	"ourhour/internal/adapters/auth"
	emailadapter "ourhour/internal/adapters/email"
	"ourhour/internal/adapters/storage"
	delivery "ourhour/internal/delivery/http"
	"ourhour/internal/domain"
	"ourhour/internal/repository/memory"
	"ourhour/internal/repository/postgres"
	"ourhour/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title OurHour API
// @version 1.0
// @description Event discovery, booking and session API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("ourhour exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed := cfg.CatalogSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	now := time.Now()
	catalog, err := memory.NewCatalog(memory.SeedEvents(uint64(seed), now), memory.SeedCommunities(now))
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	logger.Info("catalog generated", "seed", seed)

	store, credentials, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.Mailer.AWSRegion,
			AccessKeyID:        cfg.Mailer.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mailer.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mailer.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	renderer, err := emailadapter.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("email templates: %w", err)
	}
	emailSvc := services.NewEmailService(mailer, renderer, logger)

	jwt := auth.NewJWTManager(cfg.JWTSecret)
	session := services.NewSessionService(ctx, store, credentials, auth.NewBcryptHasher(0), jwt,
		services.SessionOptions{
			TokenExpiry: cfg.TokenExpiry,
			Latency:     cfg.SessionLatency,
			Email:       emailSvc,
		}, logger)

	router := delivery.NewRouter(delivery.RouterConfig{
		Logger:         logger,
		Catalog:        services.NewCatalogService(catalog.Events(), catalog.Communities(), session, serviceTimeout, logger),
		Bookings:       services.NewBookingService(catalog.Bookings(), catalog.Events(), session, emailSvc, logger),
		Dashboard:      services.NewDashboardService(catalog.Events(), catalog.Communities(), catalog.Bookings(), session),
		Session:        session,
		Verifier:       jwt,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "session_store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openSessionStore picks the backend the session and registered accounts persist to. Only the
// postgres backend keeps accounts across restarts.
func openSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.KeyValueStore, domain.CredentialRepository, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return storage.NewMemoryStore(), memory.NewCredentialRepository(), func() {}, nil
	case config.SessionStorePostgres:
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing database", "err", err)
			}
		}
		if err := db.PingContext(ctx); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if err := errors.Join(postgres.EnsureKeyValueSchema(ctx, db), postgres.EnsureCredentialSchema(ctx, db)); err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		return postgres.NewKeyValueRepository(db), postgres.NewCredentialRepository(db), closeDB, nil
	default:
		fs, err := storage.NewFileStore(cfg.SessionFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("session file: %w", err)
		}
		return fs, memory.NewCredentialRepository(), func() {}, nil
	}
}
