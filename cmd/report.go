package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"spext/internal/shared"
	"spext/internal/store"
)

// Report prints per-table row counts for the configured database.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openExisting(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	counts, err := store.Summarize(db)
	if err != nil {
		return fmt.Errorf("failed to summarize database: %w", err)
	}

	r.writePlain("%s\n", store.RenderSummary(counts))
	return nil
}

// Genres rebuilds the artist_genres relation for the configured
// database.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openExisting(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := store.RebuildArtistGenres(db, r.logger)
	if err != nil {
		return fmt.Errorf("failed to rebuild artist_genres: %w", err)
	}

	r.writePlain("artist_genres rebuilt: %d rows\n", n)
	return nil
}

// openExisting opens the configured database without creating it.
func (r *Runner) openExisting(configPath string) (*sql.DB, error) {
	config := r.loadConfig(configPath)

	if _, err := os.Stat(config.Database.Path); err != nil {
		return nil, fmt.Errorf("database not found at %s, run 'spext setup' first", config.Database.Path)
	}

	return shared.NewDatabase(config.Database.Path)
}
