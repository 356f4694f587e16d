// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// runCommand drives a full extraction run into the database.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Extract albums, artists, tracks, playlists and users, then persist them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "input-dir",
				Usage: "Directory holding the *_ids.txt files (overrides config)",
			},
		},
		Action: r.Run,
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and bootstrap an empty database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// reportCommand prints per-table row counts for the current database.
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show per-table row counts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Report,
	}
}

// genresCommand rebuilds the derived artist_genres relation.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Rebuild the artist_genres relation from artists.genres",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Genres,
	}
}
