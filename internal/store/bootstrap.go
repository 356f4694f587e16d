package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"spext/internal/shared"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Bootstrap (re)creates the database file at path and applies every
// *.sql definition file in filename-sort order. This is a destructive
// full reset, not a migration: any prior database file is replaced
// wholesale. When schemaDir is non-empty its *.sql files are applied
// instead of the embedded defaults.
func Bootstrap(path, schemaDir string, logger *log.Logger) (*sql.DB, error) {
	var fsys fs.FS
	if schemaDir != "" {
		fsys = os.DirFS(schemaDir)
	} else {
		sub, err := fs.Sub(schemaFiles, "schema")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded schema: %w", err)
		}
		fsys = sub
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("failed to remove existing database: %w", err)
			}
			logger.Info("removed existing database", "path", path)
		}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if err := applySchema(db, fsys, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// applySchema executes every *.sql file in fsys in filename-sort order.
func applySchema(db *sql.DB, fsys fs.FS, logger *log.Logger) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read schema directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return fmt.Errorf("%w: no schema definition files found", shared.ErrSchemaMissing)
	}

	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", name, err)
		}
		if err := execScript(db, string(content)); err != nil {
			return fmt.Errorf("failed to apply schema file %s: %w", name, err)
		}
		logger.Debug("applied schema file", "file", name)
	}

	return nil
}

// execScript executes each statement in a schema script separately.
func execScript(db *sql.DB, script string) error {
	statements := strings.Split(script, ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(removeComments(stmt))
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}
	return nil
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
