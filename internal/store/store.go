package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
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
	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		name        TEXT NOT NULL,
		icon        TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		weekly_goal REAL NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (user_id, id)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id        TEXT NOT NULL,
		description    TEXT NOT NULL,
		category       TEXT NOT NULL,
		duration       INTEGER NOT NULL,
		scheduled_time TEXT NOT NULL DEFAULT '',
		date           TEXT NOT NULL,
		completed      INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		notes          TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_date      ON tasks(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(user_id, completed);

	CREATE TABLE IF NOT EXISTS time_sessions (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      TEXT NOT NULL,
		task_id      INTEGER,
		category     TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		duration     INTEGER NOT NULL,
		date         TEXT NOT NULL,
		started_at   TEXT,
		completed_at TEXT,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_date ON time_sessions(user_id, date);

	CREATE TABLE IF NOT EXISTS user_settings (
		user_id               TEXT PRIMARY KEY,
		sound_enabled         INTEGER NOT NULL DEFAULT 1,
		notifications_enabled INTEGER NOT NULL DEFAULT 1,
		auto_start_next       INTEGER NOT NULL DEFAULT 0,
		theme                 TEXT NOT NULL DEFAULT 'default',
		updated_at            TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS user_streaks (
		user_id             TEXT PRIMARY KEY,
		current_streak      INTEGER NOT NULL DEFAULT 0,
		longest_streak      INTEGER NOT NULL DEFAULT 0,
		last_activity_date  TEXT,
		total_practice_days INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at          TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS weekly_resets (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id        TEXT NOT NULL,
		reset_date     TEXT NOT NULL,
		previous_stats TEXT NOT NULL DEFAULT '{}',
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_resets_date ON weekly_resets(user_id, reset_date);

	CREATE TABLE IF NOT EXISTS daily_motivations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		message    TEXT NOT NULL,
		is_active  INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/studyflow/studyflow.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studyflow", "studyflow.db"), nil
}
