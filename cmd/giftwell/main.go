package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"

	"github.com/mereck/giftwell/internal/config"
	"github.com/mereck/giftwell/internal/database"
	"github.com/mereck/giftwell/internal/logging"
)

const usage = `usage: giftwell <command>

commands:
  migrate-up      apply pending schema migrations
  migrate-down    roll back all schema migrations
  version         print the current schema version
  health          check connectivity to postgres and redis
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Error("Command failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(args []string) error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
	}

	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "migrate-up":
		return migrateUp(cfg, logger)
	case "migrate-down":
		return migrateDown(cfg, logger)
	case "version":
		return printVersion(cfg)
	case "health":
		return checkHealth(cfg, logger)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func migrateUp(cfg *config.Config, logger *logging.Logger) error {
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	logger.Info("Running database migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("Migrations completed")
	return nil
}

func migrateDown(cfg *config.Config, logger *logging.Logger) error {
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	logger.Info("Rolling back database migrations...")
	if err := migrator.Down(); err != nil {
		return err
	}
	logger.Info("Rollback completed")
	return nil
}

func printVersion(cfg *config.Config) error {
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("version=none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	fmt.Printf("version=%d dirty=%t\n", version, dirty)
	return nil
}

func checkHealth(cfg *config.Config, logger *logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	if err := db.Health(ctx); err != nil {
		return fmt.Errorf("postgres health: %w", err)
	}
	logger.Info("Postgres healthy", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})

	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	if err := redisDB.Health(ctx); err != nil {
		return fmt.Errorf("redis health: %w", err)
	}
	logger.Info("Redis healthy", map[string]interface{}{"addr": cfg.Redis.Addr()})

	return nil
}
