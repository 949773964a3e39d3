// Package store provides SQLite-backed drawing session history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soocke/sawbot-go/domain/geometry"
	"github.com/soocke/sawbot-go/domain/session"
)

// Migration is one schema step.
type Migration struct {
	Version     int
	Description string
	Up          string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create sessions table",
		Up: `
CREATE TABLE IF NOT EXISTS sessions (
    id          TEXT PRIMARY KEY,
    image_path  TEXT NOT NULL,
    method      TEXT NOT NULL,
    speed       INTEGER NOT NULL,
    x           INTEGER NOT NULL,
    y           INTEGER NOT NULL,
    width       INTEGER NOT NULL,
    height      INTEGER NOT NULL,
    started_at  INTEGER NOT NULL,
    ended_at    INTEGER NOT NULL,
    outcome     TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);`,
	},
}

// History stores finished drawing sessions.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the database at path and runs migrations.
func OpenHistory(path string) (*History, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &History{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL, applied_at INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`, m.Version, time.Now().Unix()); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// RecordSession inserts or replaces a finished session.
func (h *History) RecordSession(ctx context.Context, r session.Record) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (id, image_path, method, speed, x, y, width, height, started_at, ended_at, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ImagePath, r.Method, r.Speed, r.Rect.X, r.Rect.Y, r.Rect.Width, r.Rect.Height,
		r.StartedAt.UnixMilli(), r.EndedAt.UnixMilli(), string(r.Outcome), r.Error,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Recent returns up to limit sessions, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]session.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, image_path, method, speed, x, y, width, height, started_at, ended_at, outcome, error
		FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	var out []session.Record
	for rows.Next() {
		var (
			r              session.Record
			rect           geometry.Rect
			started, ended int64
			outcome        string
		)
		if err := rows.Scan(&r.ID, &r.ImagePath, &r.Method, &r.Speed, &rect.X, &rect.Y, &rect.Width, &rect.Height,
			&started, &ended, &outcome, &r.Error); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.Rect = rect
		r.StartedAt = time.UnixMilli(started)
		r.EndedAt = time.UnixMilli(ended)
		r.Outcome = session.Outcome(outcome)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats summarises the stored sessions.
type Stats struct {
	Total     int
	Completed int
	Drawing   time.Duration
}

func (h *History) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	var ms sql.NullInt64
	err := h.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0),
		       SUM(ended_at - started_at)
		FROM sessions`, string(session.OutcomeCompleted)).Scan(&s.Total, &s.Completed, &ms)
	if err != nil {
		return Stats{}, fmt.Errorf("session stats: %w", err)
	}
	if ms.Valid {
		s.Drawing = time.Duration(ms.Int64) * time.Millisecond
	}
	return s, nil
}

// Clear deletes all sessions.
func (h *History) Clear(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}
