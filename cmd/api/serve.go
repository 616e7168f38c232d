package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/upload"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/email"
	"github.com/your-org/storefront/internal/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront and its API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", cfg.App.Name)

	var db *postgres.DB
	if cfg.UsesPostgres() {
		db, err = postgres.NewConnection(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrate(cfg, db, log); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.UsesRedis() {
		redisClient, err = redis.NewConnection(cfg, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	deps := http.Dependencies{
		Storage:  buildStorage(cfg, db, redisClient, log),
		Catalog:  product.NewClient(cfg),
		Users:    buildUserRepository(cfg, db),
		Uploader: upload.NewUploader(cfg, log),
		Mailer:   email.NewEmailService(cfg, log),
		DB:       db,
		Redis:    redisClient,
	}

	server := http.NewServer(cfg, log, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
	return nil
}

func migrate(cfg *config.Config, db *postgres.DB, log logrus.FieldLogger) error {
	migration := postgres.NewMigration(db.GetDB(), log)

	if err := migration.RunAutoMigrations(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	// Seed initial data in development
	if cfg.IsDevelopment() && cfg.Users.Driver == "postgres" {
		if err := migration.SeedInitialData(auth.NewPasswordManager(cfg), postgres.DevelopmentAccounts); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
	}

	return nil
}

// buildStorage selects the backend behind each storage scope
func buildStorage(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, log logrus.FieldLogger) *storage.Provider {
	var durable storage.Backend
	switch cfg.Storage.DurableDriver {
	case "postgres":
		durable = storage.NewGormBackend(db.GetDB())
	case "redis":
		durable = storage.NewRedisBackend(redisClient.GetClient(), "storefront:", 0)
	default:
		durable = storage.NewMemoryBackend()
	}

	var ephemeral storage.Backend
	switch cfg.Storage.EphemeralDriver {
	case "redis":
		ephemeral = storage.NewRedisBackend(redisClient.GetClient(), "storefront:", cfg.Storage.EphemeralTTL)
	default:
		ephemeral = storage.NewMemoryBackend()
	}

	log.WithFields(logrus.Fields{
		"durable":   cfg.Storage.DurableDriver,
		"ephemeral": cfg.Storage.EphemeralDriver,
	}).Info("Storage backends selected")

	return storage.NewProvider(durable, ephemeral, log)
}

func buildUserRepository(cfg *config.Config, db *postgres.DB) user.Repository {
	if cfg.Users.Driver == "postgres" {
		return user.NewGormRepository(db.GetDB())
	}
	return user.NewFileRepository(cfg.Users.File)
}
