package registry

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tools (
		id                  TEXT    PRIMARY KEY,
		name                TEXT    NOT NULL UNIQUE,
		description         TEXT    NOT NULL DEFAULT '',
		source_format       TEXT    NOT NULL,
		action              TEXT    NOT NULL DEFAULT '',
		domain              TEXT    NOT NULL DEFAULT '',
		side_effects        INTEGER NOT NULL DEFAULT 0,
		data_classification TEXT    NOT NULL DEFAULT '',
		pii_handling        TEXT    NOT NULL DEFAULT '',
		canonical           TEXT    NOT NULL,
		created_at          TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tools_source_format ON tools(source_format)`,

	`CREATE INDEX IF NOT EXISTS idx_tools_action ON tools(action)`,

	`CREATE INDEX IF NOT EXISTS idx_tools_domain ON tools(domain)`,

	`CREATE VIRTUAL TABLE IF NOT EXISTS tools_fts USING fts5(
		name,
		description,
		content=tools,
		content_rowid=rowid
	)`,

	`CREATE TRIGGER IF NOT EXISTS tools_ai AFTER INSERT ON tools BEGIN
		INSERT INTO tools_fts(rowid, name, description) VALUES (new.rowid, new.name, new.description);
	END`,

	`CREATE TRIGGER IF NOT EXISTS tools_ad AFTER DELETE ON tools BEGIN
		INSERT INTO tools_fts(tools_fts, rowid, name, description) VALUES ('delete', old.rowid, old.name, old.description);
	END`,

	`CREATE TRIGGER IF NOT EXISTS tools_au AFTER UPDATE ON tools BEGIN
		INSERT INTO tools_fts(tools_fts, rowid, name, description) VALUES ('delete', old.rowid, old.name, old.description);
		INSERT INTO tools_fts(rowid, name, description) VALUES (new.rowid, new.name, new.description);
	END`,
}

// migrate creates or updates the database schema to the latest version.
// All DDL uses IF NOT EXISTS, making migration idempotent.
func migrate(db *sql.DB) error {
	ctx := context.TODO()

	// Ensure schema_version table exists first.
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("registry: create schema_version: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("registry: read schema version: %w", err)
	}

	if current >= schemaVersion {
		return nil
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("registry: migrate: %w\nstatement: %s", err, stmt)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("registry: record schema version: %w", err)
	}

	return nil
}
