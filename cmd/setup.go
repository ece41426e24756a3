package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a config file when missing, initializes the history database and checks the backend.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
	case !errors.Is(err, shared.ErrMissingConfig):
		r.logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	default:
		r.logger.Info("config file not found, creating from template", "path", path)
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", path)
			if config, err = shared.LoadConfig(path); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenStore(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	pending, err := shared.PendingMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v (%d pending migrations)", config.Database.Path, len(pending))

	r.writePlain("✓ Config: %s\n", path)
	r.writePlain("✓ History database: %s\n", config.Database.Path)

	if r.api == nil {
		return nil
	}
	if health, err := r.api.Health(ctx); err != nil {
		r.logger.Warn("backend not reachable", "url", config.API.BaseURL, "error", err)
		r.writePlain("⚠ Backend not reachable at %s\n", config.API.BaseURL)
	} else {
		r.writePlain("✓ Backend %s at %s\n", health.Status, config.API.BaseURL)
	}
	return nil
}
