package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/invoice-validator/constants"
	"github.com/joseph-ayodele/invoice-validator/internal/entity"
)

// Journal records run lifecycle events. Callers treat every method as
// best-effort: a journal failure is logged and the run keeps going.
type Journal interface {
	StartRun(ctx context.Context, runID uuid.UUID, startedAt time.Time) error
	RecordState(ctx context.Context, runID uuid.UUID, state constants.RunState, note string) error
	FinishRun(ctx context.Context, runID uuid.UUID, state constants.RunState, stats entity.RunStats, note string) error
}

// NopJournal discards everything. Used when the journal cannot be opened.
type NopJournal struct{}

func (NopJournal) StartRun(context.Context, uuid.UUID, time.Time) error { return nil }
func (NopJournal) RecordState(context.Context, uuid.UUID, constants.RunState, string) error {
	return nil
}
func (NopJournal) FinishRun(context.Context, uuid.UUID, constants.RunState, entity.RunStats, string) error {
	return nil
}

// RunJournal persists runs and their state transitions in a local SQLite file.
type RunJournal struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenJournal opens (creating if needed) the SQLite journal at path.
func OpenJournal(ctx context.Context, path string, logger *slog.Logger) (*RunJournal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("store.journal.open", "path", path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &RunJournal{db: db, logger: logger}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP,
	state         TEXT NOT NULL,
	invoice_files INTEGER NOT NULL DEFAULT 0,
	invoice_items INTEGER NOT NULL DEFAULT 0,
	matched_items INTEGER NOT NULL DEFAULT 0,
	note          TEXT
);
CREATE TABLE IF NOT EXISTS run_transitions (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	state  TEXT NOT NULL,
	note   TEXT,
	at     TIMESTAMP NOT NULL
);`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (j *RunJournal) StartRun(ctx context.Context, runID uuid.UUID, startedAt time.Time) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, state) VALUES (?, ?, ?)`,
		runID.String(), startedAt.UTC(), string(constants.RunStateIdle))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (j *RunJournal) RecordState(ctx context.Context, runID uuid.UUID, state constants.RunState, note string) error {
	if _, err := j.db.ExecContext(ctx,
		`INSERT INTO run_transitions (run_id, state, note, at) VALUES (?, ?, ?, ?)`,
		runID.String(), string(state), note, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	if _, err := j.db.ExecContext(ctx,
		`UPDATE runs SET state = ? WHERE id = ?`,
		string(state), runID.String()); err != nil {
		return fmt.Errorf("update run state: %w", err)
	}
	return nil
}

func (j *RunJournal) FinishRun(ctx context.Context, runID uuid.UUID, state constants.RunState, stats entity.RunStats, note string) error {
	if _, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, state = ?, invoice_files = ?, invoice_items = ?, matched_items = ?, note = ? WHERE id = ?`,
		time.Now().UTC(), string(state), stats.InvoiceFiles, stats.InvoiceItems, stats.MatchedItems, note, runID.String()); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun reads one run row back, mostly for diagnostics.
func (j *RunJournal) GetRun(ctx context.Context, runID uuid.UUID) (*entity.Run, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, state, invoice_files, invoice_items, matched_items, note
		 FROM runs WHERE id = ?`, runID.String())

	var (
		id         string
		startedAt  time.Time
		finishedAt sql.NullTime
		state      string
		files      int
		items      int
		matched    int
		note       sql.NullString
	)
	if err := row.Scan(&id, &startedAt, &finishedAt, &state, &files, &items, &matched, &note); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse run id: %w", err)
	}
	run := &entity.Run{
		ID:           parsed,
		StartedAt:    startedAt,
		State:        state,
		InvoiceFiles: files,
		InvoiceItems: items,
		MatchedItems: matched,
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	if note.Valid && note.String != "" {
		s := note.String
		run.Note = &s
	}
	return run, nil
}

// Transitions lists the recorded states for a run in order.
func (j *RunJournal) Transitions(ctx context.Context, runID uuid.UUID) ([]string, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT state FROM run_transitions WHERE run_id = ? ORDER BY id`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

// Close closes the journal database gracefully.
func (j *RunJournal) Close() {
	if err := j.db.Close(); err != nil {
		j.logger.Error("store.journal.close_failed", "error", err)
	}
}
