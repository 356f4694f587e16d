package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableCount is one row of the database summary.
type TableCount struct {
	Table string
	Rows  int
}

// Summarize returns the row count of every user table, ordered by
// table name.
func Summarize(db *sql.DB) ([]TableCount, error) {
	rows, err := db.Query(
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	var counts []TableCount
	for _, name := range names {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + name).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		counts = append(counts, TableCount{Table: name, Rows: n})
	}

	return counts, nil
}

// RenderSummary renders table counts as a bordered terminal table.
func RenderSummary(counts []TableCount) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TABLE", "ROWS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, c := range counts {
		t.Row(c.Table, strconv.Itoa(c.Rows))
	}

	return t.String()
}
