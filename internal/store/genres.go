package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// RebuildArtistGenres recreates the artist_genres relation from the
// artists table's JSON genres column. The relation is rebuilt from
// scratch on every call so it always mirrors the current artists
// table. Returns the number of (artist_id, genre) rows written.
func RebuildArtistGenres(db *sql.DB, logger *log.Logger) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS artist_genres (artist_id TEXT, genre TEXT)`); err != nil {
		return 0, fmt.Errorf("failed to create artist_genres: %w", err)
	}

	rows, err := db.Query("SELECT artist_id, genres FROM artists")
	if err != nil {
		return 0, fmt.Errorf("failed to read artists: %w", err)
	}
	defer rows.Close()

	type pair struct{ artistID, genre string }
	var pairs []pair

	for rows.Next() {
		var artistID string
		var genres sql.NullString
		if err := rows.Scan(&artistID, &genres); err != nil {
			return 0, fmt.Errorf("failed to scan artist: %w", err)
		}
		if !genres.Valid || genres.String == "" {
			continue
		}
		for _, g := range parseGenres(genres.String) {
			pairs = append(pairs, pair{artistID, g})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("row iteration error: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM artist_genres"); err != nil {
		return 0, fmt.Errorf("failed to clear artist_genres: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO artist_genres (artist_id, genre) VALUES (?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.Exec(p.artistID, p.genre); err != nil {
			return 0, fmt.Errorf("failed to insert genre row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	logger.Info("rebuilt artist_genres", "rows", len(pairs))
	return len(pairs), nil
}

// parseGenres decodes a JSON string array, falling back to a comma
// split for rows written by older tooling.
func parseGenres(raw string) []string {
	var genres []string
	if err := json.Unmarshal([]byte(raw), &genres); err == nil {
		return genres
	}

	var out []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
