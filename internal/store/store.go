package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

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
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL UNIQUE,
		description     TEXT NOT NULL DEFAULT '',
		start_date      TEXT,
		deadline        TEXT,
		active_days     TEXT NOT NULL DEFAULT '',
		criteria_type   TEXT NOT NULL DEFAULT 'manual',
		criteria_value  INTEGER NOT NULL DEFAULT 0,
		priority        INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at    TEXT
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		text            TEXT NOT NULL,
		total_poms      INTEGER NOT NULL DEFAULT 1,
		completed_poms  INTEGER NOT NULL DEFAULT 0,
		completed       INTEGER NOT NULL DEFAULT 0,
		project_id      INTEGER REFERENCES projects(id) ON DELETE SET NULL,
		tags            TEXT NOT NULL DEFAULT '',
		priority        INTEGER NOT NULL DEFAULT 0,
		focus_minutes   INTEGER,
		break_minutes   INTEGER,
		due_date        TEXT,
		is_template     INTEGER NOT NULL DEFAULT 0,
		recurring_days  TEXT NOT NULL DEFAULT '',
		recurring_end   TEXT,
		is_active       INTEGER NOT NULL DEFAULT 1,
		stop_on_project_completion INTEGER NOT NULL DEFAULT 0,
		template_id     INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project  ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_template ON tasks(template_id);

	CREATE TABLE IF NOT EXISTS targets (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		text            TEXT NOT NULL,
		start_date      TEXT,
		deadline        TEXT,
		priority        INTEGER NOT NULL DEFAULT 0,
		mode            TEXT NOT NULL DEFAULT 'manual',
		tags            TEXT NOT NULL DEFAULT '',
		target_minutes  INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at    TEXT
	);

	CREATE TABLE IF NOT EXISTS goals (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		text          TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at  TEXT
	);

	CREATE TABLE IF NOT EXISTS commitments (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		text          TEXT NOT NULL,
		due_date      TEXT,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at  TEXT,
		broken_at     TEXT
	);

	CREATE TABLE IF NOT EXISTS project_updates (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id     INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
		text        TEXT NOT NULL,
		date        TEXT NOT NULL,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_updates_project ON project_updates(project_id);

	CREATE TABLE IF NOT EXISTS pomodoro_history (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id           INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
		duration_minutes  INTEGER NOT NULL DEFAULT 0,
		ended_at          TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_task  ON pomodoro_history(task_id);
	CREATE INDEX IF NOT EXISTS idx_history_ended ON pomodoro_history(ended_at);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('focus_minutes',       '25'),
		('break_minutes',       '5'),
		('long_break_minutes',  '15'),
		('poms_per_long_break', '4'),
		('daily_goal_minutes',  '120'),
		('week_start',          'monday'),
		('insight_url',         ''),
		('insight_key',         ''),
		('report_recipient',    '');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/focusflow/focusflow.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focusflow", "focusflow.db"), nil
}

// --- helpers for RFC3339 text timestamps and nullable columns ---

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func nullInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func nullIntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func intPtrArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func int64PtrArg(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
