package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaSystems = `
CREATE TABLE IF NOT EXISTS systems (
    serial_number    TEXT PRIMARY KEY,
    customer_name    TEXT NOT NULL,
    region           TEXT NOT NULL,
    site_timezone    TEXT NOT NULL,
    software_version TEXT NOT NULL,
    atlas_key        TEXT NOT NULL,
    last_event_at    TEXT,
    last_alert_at    TEXT
);
`

const schemaSystemModules = `
CREATE TABLE IF NOT EXISTS system_modules (
    module_serial TEXT PRIMARY KEY,
    system_serial TEXT NOT NULL REFERENCES systems(serial_number) ON DELETE CASCADE,
    module_name   TEXT NOT NULL,
    module_side   TEXT NOT NULL,
    position      INTEGER NOT NULL
);
`

// occurred_at is stored as fixed-width UTC text so range filters compare lexically.
const schemaModuleEvents = `
CREATE TABLE IF NOT EXISTS module_events (
    id            TEXT PRIMARY KEY,
    system_serial TEXT NOT NULL,
    module_serial TEXT NOT NULL,
    event_code    TEXT NOT NULL,
    occurred_at   TEXT NOT NULL,
    execution_id  TEXT,
    payload       TEXT NOT NULL
);
`

const indexModuleEvents = `
CREATE INDEX IF NOT EXISTS idx_module_events_module_time
    ON module_events (module_serial, occurred_at);
`

const schemaAssays = `
CREATE TABLE IF NOT EXISTS assays (
    assay_code   TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    short_name   TEXT NOT NULL
);
`

const schemaEventTypes = `
CREATE TABLE IF NOT EXISTS event_types (
    event_code   TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    category     TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSystems,
		schemaSystemModules,
		schemaModuleEvents,
		indexModuleEvents,
		schemaAssays,
		schemaEventTypes,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
