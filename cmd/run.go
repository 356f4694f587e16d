package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"spext/internal/extract"
	"spext/internal/models"
	"spext/internal/shared"
	"spext/internal/spotify"
	"spext/internal/store"
)

// Run performs a full extraction run: read id lists, extract the six
// datasets, bootstrap the destination schema, commit, and rebuild the
// derived genre relation.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	creds := config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: set credentials.spotify in config.toml", shared.ErrMissingCredentials)
	}

	inputDir := config.Input.Dir
	if dir := cmd.String("input-dir"); dir != "" {
		inputDir = dir
	}

	ids, err := r.readIDSets(inputDir)
	if err != nil {
		return err
	}

	tokens := spotify.NewTokenProvider(
		creds.ClientID, creds.ClientSecret, config.API.TokenURL,
		spotify.DefaultSafetyMargin, r.logger)
	client := spotify.NewClient(tokens, spotify.ClientOpts{
		BaseURL:     config.API.BaseURL,
		MaxRetries:  config.API.MaxRetries,
		Timeout:     time.Duration(config.API.TimeoutSeconds) * time.Second,
		BackoffBase: time.Duration(config.API.BackoffSeconds) * time.Second,
		RateLimit:   config.API.RateLimit,
	}, r.logger)

	pipeline := extract.NewPipeline(extract.NewExtractor(client, r.logger), r.logger)

	datasets, err := pipeline.Run(ctx, ids)
	if err != nil {
		return err
	}

	db, err := store.Bootstrap(config.Database.Path, config.Database.SchemaDir, r.logger)
	if err != nil {
		return fmt.Errorf("failed to bootstrap database: %w", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	sink := store.NewSink(db, r.logger)
	result, err := sink.Commit(datasets)
	if err != nil {
		return err
	}

	if _, err := store.RebuildArtistGenres(db, r.logger); err != nil {
		r.logger.Warn("failed to rebuild artist_genres", "error", err)
	}

	r.writeRunSummary(datasets, result)
	return nil
}

// readIDSets loads the per-kind id list files from dir. Missing files
// yield empty sets (warned inside ReadIDFile), not errors.
func (r *Runner) readIDSets(dir string) (extract.IDSets, error) {
	var ids extract.IDSets
	var err error

	if ids.Albums, err = shared.ReadIDFile(filepath.Join(dir, "album_ids.txt"), r.logger); err != nil {
		return ids, err
	}
	if ids.Artists, err = shared.ReadIDFile(filepath.Join(dir, "artist_ids.txt"), r.logger); err != nil {
		return ids, err
	}
	if ids.Tracks, err = shared.ReadIDFile(filepath.Join(dir, "track_ids.txt"), r.logger); err != nil {
		return ids, err
	}
	if ids.Playlists, err = shared.ReadIDFile(filepath.Join(dir, "playlist_ids.txt"), r.logger); err != nil {
		return ids, err
	}

	return ids, nil
}

// writeRunSummary prints per-kind fetched/persisted counts.
func (r *Runner) writeRunSummary(ds *models.Datasets, res *store.CommitResult) {
	counts := ds.Counts()

	r.writePlainHeader("Extraction summary")
	for _, table := range []string{"albums", "artists", "tracks", "playlists", "playlist_tracks", "users"} {
		r.writePlain("%-16s fetched %-6d persisted %d\n", table, counts[table], res.Persisted[table])
	}
	for _, table := range res.Missing {
		r.writePlain("%-16s NOT PERSISTED (table missing)\n", table)
	}
}
