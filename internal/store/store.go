package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		id                      INTEGER PRIMARY KEY AUTOINCREMENT,
		name                    TEXT NOT NULL UNIQUE,
		color                   TEXT NOT NULL DEFAULT '#F39C12',
		project_type            TEXT NOT NULL DEFAULT 'commercial',
		location                TEXT NOT NULL DEFAULT '',
		status                  TEXT NOT NULL DEFAULT 'active',
		start_date              TEXT NOT NULL DEFAULT '',
		planned_completion_date TEXT NOT NULL DEFAULT '',
		planned_hours_per_day   REAL NOT NULL DEFAULT 8,
		working_days_per_week   INTEGER NOT NULL DEFAULT 6,
		archived                INTEGER NOT NULL DEFAULT 0,
		created_at              TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at              TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS planned_targets (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id             INTEGER NOT NULL REFERENCES projects(id),
		activity_name          TEXT NOT NULL,
		planned_daily_quantity REAL NOT NULL,
		unit                   TEXT NOT NULL DEFAULT '',
		start_date             TEXT NOT NULL DEFAULT '',
		end_date               TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_targets_project ON planned_targets(project_id);

	CREATE TABLE IF NOT EXISTS daily_logs (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id          INTEGER NOT NULL REFERENCES projects(id),
		activity_name       TEXT NOT NULL,
		planned_quantity    REAL NOT NULL DEFAULT 0,
		actual_quantity     REAL NOT NULL DEFAULT 0,
		unit                TEXT NOT NULL DEFAULT '',
		laborers            INTEGER NOT NULL DEFAULT 0,
		supervisors         INTEGER NOT NULL DEFAULT 0,
		log_date            TEXT NOT NULL,
		start_time          TEXT NOT NULL,
		end_time            TEXT NOT NULL,
		total_working_hours REAL NOT NULL DEFAULT 0,
		total_pause_hours   REAL NOT NULL DEFAULT 0,
		net_working_hours   REAL NOT NULL DEFAULT 0,
		remarks             TEXT NOT NULL DEFAULT '',
		submitted_by        TEXT NOT NULL DEFAULT '',
		submitted_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	CREATE INDEX IF NOT EXISTS idx_logs_project ON daily_logs(project_id);
	CREATE INDEX IF NOT EXISTS idx_logs_date    ON daily_logs(log_date);

	CREATE TABLE IF NOT EXISTS interruptions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		log_id         INTEGER NOT NULL REFERENCES daily_logs(id),
		position       INTEGER NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		start_time     TEXT NOT NULL,
		end_time       TEXT NOT NULL,
		duration_hours REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_interruptions_log ON interruptions(log_id);

	CREATE TABLE IF NOT EXISTS profile (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		full_name    TEXT NOT NULL DEFAULT '',
		designation  TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'site_engineer',
		company_name TEXT NOT NULL DEFAULT '',
		phone        TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('low_productivity_threshold', '80'),
		('risk_window_days',           '5'),
		('min_consecutive_days',       '2'),
		('on_track_threshold',         '90'),
		('slight_delay_threshold',     '75');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/sitelog/sitelog.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "sitelog", "sitelog.db"), nil
}
