// package store owns the destination SQLite database: destructive
// schema bootstrap from versioned definition files, the transactional
// replace-by-key sink for the six datasets, the derived artist_genres
// rebuild, and the row-count summary.
//
// The store assumes a single writer; no concurrent writer may run
// during a commit.
package store
