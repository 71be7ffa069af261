package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"spendtrack/internal/config"
	"spendtrack/internal/logger"
)

const usage = "usage: migrate <up|down [N]|version|force V>"

type command func(m *migrate.Migrate, args []string, log *zap.SugaredLogger) error

var commands = map[string]command{
	"up":      up,
	"down":    down,
	"version": version,
	"force":   force,
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Named("migrate")
	if cfg.StoreDriver != config.DriverPostgres {
		log.Warnw("migrations target the postgres store", "store_driver", cfg.StoreDriver)
	}

	m, err := migrate.New(cfg.MigrationsPath, cfg.PostgresURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warnw("migrate source close error", "error", srcErr)
		}
		if dbErr != nil {
			log.Warnw("migrate database close error", "error", dbErr)
		}
	}()

	return cmd(m, args[1:], log)
}

func up(m *migrate.Migrate, _ []string, log *zap.SugaredLogger) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	log.Info("Migrations applied")
	return nil
}

func down(m *migrate.Migrate, args []string, log *zap.SugaredLogger) error {
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		steps = n
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	log.Infow("Rolled back", "steps", steps)
	return nil
}

func version(m *migrate.Migrate, _ []string, log *zap.SugaredLogger) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	log.Infow("Schema version", "version", v, "dirty", dirty)
	return nil
}

// force sets the recorded version without running migrations, clearing a
// dirty flag left by a failed run.
func force(m *migrate.Migrate, args []string, log *zap.SugaredLogger) error {
	if len(args) == 0 {
		return errors.New("force needs a version")
	}
	v, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q", args[0])
	}
	if err := m.Force(v); err != nil {
		return fmt.Errorf("force failed: %w", err)
	}
	log.Infow("Forced version", "version", v)
	return nil
}
