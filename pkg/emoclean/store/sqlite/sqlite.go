package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/emoclean/pkg/emoclean/group"
	"github.com/cognicore/emoclean/pkg/emoclean/internalerr"
	"github.com/cognicore/emoclean/pkg/emoclean/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	input TEXT,
	strategy TEXT NOT NULL,
	raw_rows INTEGER NOT NULL,
	final_rows INTEGER NOT NULL,
	conflict_rows INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conflict_groups (
	run_id TEXT NOT NULL,
	video_key TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	PRIMARY KEY(run_id, video_key),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS conflict_labels (
	run_id TEXT NOT NULL,
	video_key TEXT NOT NULL,
	label TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, video_key, label),
	FOREIGN KEY(run_id, video_key) REFERENCES conflict_groups(run_id, video_key) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run together with its conflict report
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("save run: %w: empty id", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO runs (id, started_at, input, strategy, raw_rows, final_rows, conflict_rows)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	started_at=excluded.started_at,
	input=excluded.input,
	strategy=excluded.strategy,
	raw_rows=excluded.raw_rows,
	final_rows=excluded.final_rows,
	conflict_rows=excluded.conflict_rows;
`
	if _, err := tx.ExecContext(ctx, stmt,
		r.ID,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Input,
		r.Strategy,
		r.RawRows,
		r.FinalRows,
		r.ConflictRows,
	); err != nil {
		return err
	}

	if err := replaceReport(ctx, tx, r.ID, r.Report); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceReport(ctx context.Context, tx *sql.Tx, runID string, report []group.ReportEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM conflict_labels WHERE run_id=?`, runID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conflict_groups WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(report) == 0 {
		return nil
	}

	groupStmt, err := tx.PrepareContext(ctx, `INSERT INTO conflict_groups (run_id, video_key, row_count) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer groupStmt.Close()

	labelStmt, err := tx.PrepareContext(ctx, `INSERT INTO conflict_labels (run_id, video_key, label, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer labelStmt.Close()

	for _, e := range report {
		if _, err := groupStmt.ExecContext(ctx, runID, e.VideoKey, e.Rows); err != nil {
			return err
		}
		for label, n := range e.Labels {
			if _, err := labelStmt.ExecContext(ctx, runID, e.VideoKey, label, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetRun returns a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, started_at, input, strategy, raw_rows, final_rows, conflict_rows
FROM runs WHERE id=?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}

	report, err := s.loadReport(ctx, id)
	if err != nil {
		return store.Run{}, false, err
	}
	r.Report = report
	return r, true, nil
}

// ListRuns returns runs newest first, without their reports
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, input, strategy, raw_rows, final_rows, conflict_rows
FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r       store.Run
		started string
		input   sql.NullString
	)
	if err := sc.Scan(&r.ID, &started, &input, &r.Strategy, &r.RawRows, &r.FinalRows, &r.ConflictRows); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse started_at for run %s: %w", r.ID, err)
	}
	r.StartedAt = t
	r.Input = input.String
	return r, nil
}

func (s *sqliteStore) loadReport(ctx context.Context, runID string) ([]group.ReportEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT g.video_key, g.row_count, l.label, l.count
FROM conflict_groups g
JOIN conflict_labels l ON l.run_id = g.run_id AND l.video_key = g.video_key
WHERE g.run_id=?
ORDER BY g.video_key, l.label`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []group.ReportEntry
	for rows.Next() {
		var (
			key, label string
			n, count   int
		)
		if err := rows.Scan(&key, &n, &label, &count); err != nil {
			return nil, err
		}
		if len(report) == 0 || report[len(report)-1].VideoKey != key {
			report = append(report, group.ReportEntry{VideoKey: key, Rows: n, Labels: make(map[string]int)})
		}
		report[len(report)-1].Labels[label] = count
	}
	return report, rows.Err()
}
