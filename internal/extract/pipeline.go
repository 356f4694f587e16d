package extract

import (
	"context"

	"github.com/charmbracelet/log"

	"spext/internal/models"
	"spext/internal/shared"
)

// IDSets carries the per-kind input id lists for one extraction run.
// An empty list simply yields an empty dataset for that kind.
type IDSets struct {
	Albums    []string
	Artists   []string
	Tracks    []string
	Playlists []string
}

// Pipeline orchestrates extraction across the six entity kinds.
//
// A single logical worker drives the kinds sequentially to respect the
// credential-scoped rate budget; every remote call serializes through
// the shared client and token state.
type Pipeline struct {
	extractor *Extractor
	logger    *log.Logger
}

// NewPipeline creates a Pipeline around the given extractor.
func NewPipeline(extractor *Extractor, logger *log.Logger) *Pipeline {
	return &Pipeline{extractor: extractor, logger: logger}
}

// Run extracts in a fixed order: albums, artists and tracks through
// the bulk endpoints, then playlists with their derived link and user
// datasets (users depend on playlist owners, so they follow).
//
// Cancellation aborts before the next network call and returns the
// datasets collected so far with the context error. A run in which
// every dataset came back empty fails with ErrNoData even when no
// individual call errored: "wrote nothing" is distinguishable from
// partial success, and no destination write is attempted.
func (p *Pipeline) Run(ctx context.Context, ids IDSets) (*models.Datasets, error) {
	logger := shared.WithLogger(p.logger, "run_id", shared.GenerateRunID())
	logger.Info("starting extraction",
		"albums", len(ids.Albums), "artists", len(ids.Artists),
		"tracks", len(ids.Tracks), "playlists", len(ids.Playlists))

	ds := &models.Datasets{}

	ds.Albums = p.extractor.Albums(ctx, ids.Albums)
	ds.Artists = p.extractor.Artists(ctx, ids.Artists)
	ds.Tracks = p.extractor.Tracks(ctx, ids.Tracks)

	pd := p.extractor.Playlists(ctx, ids.Playlists)
	ds.Playlists = pd.Playlists
	ds.PlaylistTracks = pd.Links
	ds.Users = pd.Users

	logger.Info("extraction finished",
		"albums", len(ds.Albums), "artists", len(ds.Artists),
		"tracks", len(ds.Tracks), "playlists", len(ds.Playlists),
		"playlist_tracks", len(ds.PlaylistTracks), "users", len(ds.Users))

	if err := ctx.Err(); err != nil {
		return ds, err
	}

	if ds.Empty() {
		logger.Error("no data extracted; check id files and API access")
		return ds, shared.ErrNoData
	}

	return ds, nil
}
