package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000"

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS load_runs (
  id          INTEGER PRIMARY KEY,
  load_id     TEXT NOT NULL UNIQUE,
  started_at  TEXT NOT NULL,
  duration_ms INTEGER NOT NULL,
  source_url  TEXT,
  export_url  TEXT,
  raw_rows    INTEGER NOT NULL DEFAULT 0,
  events      INTEGER NOT NULL DEFAULT 0,
  status      TEXT NOT NULL CHECK (status IN ('ok','error')),
  error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_load_runs_time ON load_runs(started_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordLoad stores one load attempt.
func (d *DB) RecordLoad(ctx context.Context, run LoadRun) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO load_runs(load_id, started_at, duration_ms, source_url, export_url, raw_rows, events, status, error) VALUES(?,?,?,?,?,?,?,?,?)`,
		run.LoadID, run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(),
		nullIfEmpty(run.SourceURL), nullIfEmpty(run.ExportURL), run.RawRows, run.Events,
		run.Status(), nullIfEmpty(run.Error))
	return err
}

// ListLoads returns the most recent load attempts, newest first.
func (d *DB) ListLoads(ctx context.Context, limit int) ([]LoadRun, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT load_id, started_at, duration_ms, source_url, export_url, raw_rows, events, error FROM load_runs ORDER BY started_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []LoadRun{}
	for rows.Next() {
		var (
			r                   LoadRun
			startedAtStr        string
			durationMs          int64
			src, export, errMsg sql.NullString
		)
		if err := rows.Scan(&r.LoadID, &startedAtStr, &durationMs, &src, &export, &r.RawRows, &r.Events, &errMsg); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(timeLayout, startedAtStr); perr == nil {
			r.StartedAt = t
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.SourceURL = src.String
		r.ExportURL = export.String
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
