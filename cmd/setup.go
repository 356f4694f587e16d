package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"spext/internal/shared"
	"spext/internal/store"
)

// Setup creates a config file from the embedded template when absent
// and bootstraps an empty database from the schema definitions.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("bootstrapping database", "path", config.Database.Path)

	db, err := store.Bootstrap(config.Database.Path, config.Database.SchemaDir, r.logger)
	if err != nil {
		return fmt.Errorf("failed to bootstrap database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}
