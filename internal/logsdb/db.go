package logsdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// logs columns follow the destination contract, in insert order.
const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS logs (
    logType     TEXT NOT NULL,
    timestamp   TEXT,
    logText     TEXT,
    stoolType   TEXT,
    stoolVolume REAL,
    suckScore   REAL,
    tags        TEXT
);

CREATE TABLE IF NOT EXISTS log_sources (
    row_id      INTEGER PRIMARY KEY,
    entry_id    TEXT NOT NULL DEFAULT '',
    line_number INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_logs_type ON logs(logType);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion is bumped whenever the logs layout changes.
const schemaVersion = "1"

type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection keeps pragmas and the writer transaction on the same handle
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// migrateSchemaVersion drops rows written under an older layout; the next
// migrate run rebuilds them from the source.
func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read schema version: %w", err)
	}
	if err := d.Reset(); err != nil {
		return err
	}
	if _, err := d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// Reset truncates the destination so a run starts from an empty table.
func (d *DB) Reset() error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM logs"); err != nil {
		return fmt.Errorf("truncate logs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM log_sources"); err != nil {
		return fmt.Errorf("truncate log_sources: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM meta WHERE key IN ('run_id', 'finished_at', 'row_count')"); err != nil {
		return fmt.Errorf("clear run meta: %w", err)
	}
	return tx.Commit()
}
