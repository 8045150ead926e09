package repository

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// ApplySchema bootstraps the circulation tables on startup. The DDL is
// idempotent and guarded by a version row so restarts are cheap. The CHECK
// constraints back up the application-level guards; the guarded UPDATEs in
// the inventory repository remain the per-book serialization point.
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			publisher TEXT,
			genre TEXT,
			year_of_publishing INT,
			in_circulation BOOLEAN NOT NULL DEFAULT TRUE
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			user_type TEXT NOT NULL DEFAULT 'member'
		);`,
		`CREATE TABLE IF NOT EXISTS book_inventory (
			book_id UUID PRIMARY KEY REFERENCES books(id),
			total_copies INT NOT NULL CHECK (total_copies >= 0),
			borrowed_copies INT NOT NULL CHECK (borrowed_copies >= 0 AND borrowed_copies <= total_copies)
		);`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			user_id UUID NOT NULL,
			book_id UUID NOT NULL REFERENCES books(id),
			active BOOLEAN NOT NULL DEFAULT FALSE,
			borrow_count INT NOT NULL DEFAULT 0 CHECK (borrow_count >= 0),
			PRIMARY KEY (user_id, book_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_borrow_records_user_active
			ON borrow_records (user_id) WHERE active;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key, value) VALUES('schema_version', $1)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, fmt.Sprint(schemaVersion)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}
