package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"spext/internal/models"
	"spext/internal/shared"
)

// Sink commits extraction datasets into their destination tables under
// replace-by-key semantics.
type Sink struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSink creates a Sink writing to the given database.
func NewSink(db *sql.DB, logger *log.Logger) *Sink {
	return &Sink{db: db, logger: logger}
}

// CommitResult reports what a commit actually wrote.
type CommitResult struct {
	Persisted map[string]int // rows written per table
	Skipped   []string       // empty datasets, neither validated nor touched
	Missing   []string       // datasets excluded because their table does not exist
}

// tableWrite is one dataset's insert plan.
type tableWrite struct {
	table   string
	columns []string
	rows    [][]any
}

// Commit persists the datasets as a single transaction.
//
// Empty datasets are skipped before any validation: an empty dataset
// never destructively replaces a populated table, and a table the sink
// will not touch is not checked for existence. A non-empty dataset
// whose destination table does not exist is a hard error for that
// dataset, but it is excluded before the transaction begins so it can
// never roll back datasets with valid tables. Rows are written with
// INSERT OR REPLACE by natural key; any failure inside the transaction
// rolls back every table.
func (s *Sink) Commit(ds *models.Datasets) (*CommitResult, error) {
	res := &CommitResult{Persisted: make(map[string]int)}

	var writes []tableWrite
	for _, w := range buildWrites(ds) {
		if len(w.rows) == 0 {
			s.logger.Warn("empty dataset, skipping", "table", w.table)
			res.Skipped = append(res.Skipped, w.table)
			continue
		}

		exists, err := s.tableExists(w.table)
		if err != nil {
			return res, err
		}
		if !exists {
			s.logger.Error("dataset excluded from commit",
				"table", w.table, "error", shared.ErrSchemaMissing)
			res.Missing = append(res.Missing, w.table)
			continue
		}

		writes = append(writes, w)
	}

	if len(writes) == 0 {
		return res, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return res, fmt.Errorf("%w: %v", shared.ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	written := make(map[string]int, len(writes))
	for _, w := range writes {
		if err := insertRows(tx, w); err != nil {
			return res, fmt.Errorf("%w: table %s: %v", shared.ErrTransactionFailed, w.table, err)
		}
		written[w.table] = len(w.rows)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("%w: %v", shared.ErrTransactionFailed, err)
	}

	res.Persisted = written
	for table, n := range written {
		s.logger.Info("replaced rows", "table", table, "rows", n)
	}

	return res, nil
}

// tableExists checks sqlite_master for the destination table. Tables
// are never implicitly created here; absence is the bootstrapper's
// problem, not the sink's.
func (s *Sink) tableExists(name string) (bool, error) {
	var found string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return true, nil
}

// insertRows writes one dataset through a prepared INSERT OR REPLACE.
func insertRows(tx *sql.Tx, w tableWrite) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(w.columns)), ", ")
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		w.table, strings.Join(w.columns, ", "), placeholders)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range w.rows {
		if _, err := stmt.Exec(row...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	return nil
}

// buildWrites lays the datasets out as insert plans in the fixed
// commit order.
func buildWrites(ds *models.Datasets) []tableWrite {
	albums := tableWrite{
		table: "albums",
		columns: []string{"album_id", "album_name", "album_type", "artist_ids",
			"release_date", "total_tracks", "markets", "popularity", "album_uri"},
	}
	for _, a := range ds.Albums {
		albums.rows = append(albums.rows, []any{
			a.AlbumID, a.Name, a.Type, a.ArtistIDs,
			a.ReleaseDate, a.TotalTracks, a.Markets, a.Popularity, a.URI,
		})
	}

	artists := tableWrite{
		table:   "artists",
		columns: []string{"artist_id", "artist_name", "genres", "followers", "popularity", "artist_uri"},
	}
	for _, a := range ds.Artists {
		artists.rows = append(artists.rows, []any{
			a.ArtistID, a.Name, a.Genres, a.Followers, a.Popularity, a.URI,
		})
	}

	tracks := tableWrite{
		table: "tracks",
		columns: []string{"track_id", "track_name", "artist_id", "album_id", "markets",
			"popularity", "duration_ms", "track_number", "disc_number", "explicit", "local", "track_uri"},
	}
	for _, t := range ds.Tracks {
		tracks.rows = append(tracks.rows, []any{
			t.TrackID, t.Name, t.ArtistID, t.AlbumID, t.Markets,
			t.Popularity, t.DurationMS, t.TrackNumber, t.DiscNumber, t.Explicit, t.Local, t.URI,
		})
	}

	playlists := tableWrite{
		table:   "playlists",
		columns: []string{"playlist_id", "playlist_name", "owner_id", "total_tracks", "public", "playlist_uri"},
	}
	for _, p := range ds.Playlists {
		playlists.rows = append(playlists.rows, []any{
			p.PlaylistID, p.Name, p.OwnerID, p.TotalTracks, p.Public, p.URI,
		})
	}

	links := tableWrite{
		table:   "playlist_tracks",
		columns: []string{"playlist_id", "track_id", "added_at"},
	}
	for _, l := range ds.PlaylistTracks {
		links.rows = append(links.rows, []any{l.PlaylistID, l.TrackID, l.AddedAt})
	}

	users := tableWrite{
		table:   "users",
		columns: []string{"user_id", "followers", "user_uri"},
	}
	for _, u := range ds.Users {
		users.rows = append(users.rows, []any{u.UserID, u.Followers, u.URI})
	}

	return []tableWrite{albums, artists, tracks, playlists, links, users}
}
