package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
	"github.com/nemanja-m/logscan/pkg/logscan"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	input        TEXT NOT NULL,
	status       TEXT NOT NULL,
	workers      INTEGER NOT NULL,
	parallelism  INTEGER NOT NULL,
	lines        INTEGER NOT NULL,
	warnings     INTEGER NOT NULL,
	errors       INTEGER NOT NULL,
	ranks        TEXT NOT NULL,
	started_at   INTEGER NOT NULL,
	completed_at INTEGER,
	error        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// SQLiteRunStore persists run history in a SQLite database.
type SQLiteRunStore struct {
	db *sql.DB
}

func OpenSQLiteRunStore(path string) (*SQLiteRunStore, error) {
	options := "?" + "_busy_timeout=10000" +
		"&" + "_foreign_keys=ON" +
		"&" + "_journal_mode=WAL" +
		"&" + "_synchronous=NORMAL"

	db, err := sql.Open("sqlite3", path+options)
	if err != nil {
		return nil, fmt.Errorf("open run database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open run database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &SQLiteRunStore{db: db}, nil
}

type rankRecord struct {
	Rank     int    `json:"rank"`
	WorkerID string `json:"worker_id,omitempty"`
	Start    int    `json:"start"`
	Lines    int    `json:"lines"`
	Warnings int    `json:"warnings"`
	Errors   int    `json:"errors"`
}

func (s *SQLiteRunStore) SaveRun(run *core.Run) error {
	records := make([]rankRecord, len(run.Ranks))
	for i, r := range run.Ranks {
		records[i] = rankRecord{
			Rank:     r.Rank,
			Start:    r.Start,
			Lines:    r.Lines,
			Warnings: r.Counts.Warnings,
			Errors:   r.Counts.Errors,
		}
		if r.WorkerID != uuid.Nil {
			records[i].WorkerID = r.WorkerID.String()
		}
	}
	ranks, err := json.Marshal(records)
	if err != nil {
		return err
	}

	var completedAt sql.NullInt64
	if run.CompletedAt != nil {
		completedAt = sql.NullInt64{Int64: run.CompletedAt.UnixNano(), Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, input, status, workers, parallelism, lines, warnings, errors, ranks, started_at, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			lines = excluded.lines,
			warnings = excluded.warnings,
			errors = excluded.errors,
			ranks = excluded.ranks,
			completed_at = excluded.completed_at,
			error = excluded.error`,
		run.ID.String(),
		run.Input,
		string(run.Status),
		run.Workers,
		run.Parallelism,
		run.Lines,
		run.Counts.Warnings,
		run.Counts.Errors,
		string(ranks),
		run.StartedAt.UnixNano(),
		completedAt,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, input, status, workers, parallelism, lines, warnings, errors, ranks, started_at, completed_at, error FROM runs`

func (s *SQLiteRunStore) GetRun(id uuid.UUID) (*core.Run, error) {
	row := s.db.QueryRow(selectRuns+` WHERE id = ?`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	return run, err
}

func (s *SQLiteRunStore) GetRuns(filter core.RunFilter) ([]*core.Run, int, error) {
	where := ""
	var args []any
	if filter.Status != nil {
		where = ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := s.db.Query(selectRuns+where+` ORDER BY started_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*core.Run, error) {
	var (
		run         core.Run
		id          string
		status      string
		ranks       string
		startedAt   int64
		completedAt sql.NullInt64
	)
	err := row.Scan(
		&id,
		&run.Input,
		&status,
		&run.Workers,
		&run.Parallelism,
		&run.Lines,
		&run.Counts.Warnings,
		&run.Counts.Errors,
		&ranks,
		&startedAt,
		&completedAt,
		&run.Error,
	)
	if err != nil {
		return nil, err
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt run id %q: %w", id, err)
	}
	run.Status = core.RunStatus(status)
	run.StartedAt = time.Unix(0, startedAt).UTC()
	if completedAt.Valid {
		t := time.Unix(0, completedAt.Int64).UTC()
		run.CompletedAt = &t
	}

	var records []rankRecord
	if err := json.Unmarshal([]byte(ranks), &records); err != nil {
		return nil, fmt.Errorf("corrupt ranks for run %s: %w", id, err)
	}
	for _, r := range records {
		result := core.RankResult{
			Rank:   r.Rank,
			Start:  r.Start,
			Lines:  r.Lines,
			Counts: logscan.Counts{Warnings: r.Warnings, Errors: r.Errors},
		}
		if r.WorkerID != "" {
			if result.WorkerID, err = uuid.Parse(r.WorkerID); err != nil {
				return nil, fmt.Errorf("corrupt worker id %q: %w", r.WorkerID, err)
			}
		}
		run.Ranks = append(run.Ranks, result)
	}
	return &run, nil
}
