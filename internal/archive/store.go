// Package archive persists export runs to SQLite so past exports can be
// listed and re-rendered without hitting Discord again.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"channelog/internal/domain"

	_ "modernc.org/sqlite"
)

// Run is one recorded export run.
type Run struct {
	ID           int64
	ChannelID    string
	Source       string // "api" or "dom"
	Since        string
	MessageCount int
	CreatedAt    time.Time
}

// Store wraps the SQLite database holding runs and their messages.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(dbPath string, logger *slog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection; SQLite does not like concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, logger: logger}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id     TEXT NOT NULL,
		source         TEXT NOT NULL,
		since          TEXT,
		message_count  INTEGER NOT NULL,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS run_messages (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id       INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		message_id   TEXT,
		author       TEXT,
		display_name TEXT,
		avatar_url   TEXT,
		timestamp    TEXT,
		text         TEXT,
		attachments  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_run_messages_run ON run_messages(run_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores one export run and its records, returning the run id.
func (s *Store) RecordRun(ctx context.Context, run Run, records []domain.MessageRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (channel_id, source, since, message_count) VALUES (?, ?, ?, ?)`,
		run.ChannelID, run.Source, run.Since, len(records))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_messages (run_id, message_id, author, display_name, avatar_url, timestamp, text, attachments)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		attachments, err := json.Marshal(rec.Attachments)
		if err != nil {
			return 0, fmt.Errorf("marshal attachments: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, runID, rec.MessageID, rec.Author,
			rec.AuthorDisplayName, rec.AuthorAvatarURL, rec.Timestamp, rec.Text, string(attachments)); err != nil {
			return 0, fmt.Errorf("insert message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}

	s.logger.Debug("run archived", "run", runID, "channel", run.ChannelID, "messages", len(records))
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, channel_id, source, COALESCE(since, ''), message_count, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ChannelID, &r.Source, &r.Since, &r.MessageCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunMessages loads the archived record sequence of one run, in stored order.
func (s *Store) RunMessages(ctx context.Context, runID int64) ([]domain.MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(message_id,''), COALESCE(author,''), COALESCE(display_name,''),
		        COALESCE(avatar_url,''), COALESCE(timestamp,''), COALESCE(text,''), COALESCE(attachments,'[]')
		 FROM run_messages WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("load run messages: %w", err)
	}
	defer rows.Close()

	var records []domain.MessageRecord
	for rows.Next() {
		var rec domain.MessageRecord
		var attachments string
		if err := rows.Scan(&rec.MessageID, &rec.Author, &rec.AuthorDisplayName,
			&rec.AuthorAvatarURL, &rec.Timestamp, &rec.Text, &attachments); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if err := json.Unmarshal([]byte(attachments), &rec.Attachments); err != nil {
			return nil, fmt.Errorf("parse attachments: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
