// Package db holds the SQLite side of an Anki package: the collection
// schema, row inserts and a transactional batch writer.
package db

import (
	"database/sql"
	_ "embed"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is the collection format written to col.ver.
const SchemaVersion = 11

//go:embed migrations.sql
var migrationsSQL string

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
