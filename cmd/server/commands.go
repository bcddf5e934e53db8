package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/join-board/internal/config"
	"github.com/yukikurage/join-board/internal/database"
	"github.com/yukikurage/join-board/internal/logger"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
	"github.com/yukikurage/join-board/internal/server"
	"github.com/yukikurage/join-board/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the user database table for SQL storage drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the shared guest account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context())
		},
	}
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func runServer(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infow("Received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return migrateDatabase(cfg, log)
}

func migrateDatabase(cfg *config.Config, log *logger.Logger) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Infow("Migration completed", "driver", cfg.StorageDriver)
	return nil
}

func runSeed(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	_, err = seedGuest(ctx, cfg, log)
	return err
}

// seedGuest creates the shared guest account unless it exists already.
func seedGuest(ctx context.Context, cfg *config.Config, log *logger.Logger) (*models.User, error) {
	store, closeStore, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeStore() }()

	userDB := repository.NewUserDatabaseRepository(store, cfg.StorageKey, log)
	authService := services.NewAuthService(repository.NewUserRepository(userDB), cfg.GuestEmail, log)

	guest, err := authService.GuestLogin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest account: %w", err)
	}
	log.Infow("Guest account ready", "user_id", guest.ID, "email", guest.Email)
	return guest, nil
}
