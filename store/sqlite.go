package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    answer TEXT,
    envelope_json TEXT,
    status TEXT DEFAULT 'running',
    error TEXT,
    started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS run_tasks (
    run_id TEXT NOT NULL REFERENCES runs(id),
    position INTEGER NOT NULL,
    task_name TEXT NOT NULL,
    sql_query TEXT,
    rows_json TEXT,
    error TEXT,
    PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS idx_run_tasks_run ON run_tasks(run_id);
`

// NewSQLiteBundle creates a Bundle backed by SQLite at the given path
func NewSQLiteBundle(dbPath string) (*Bundle, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Bundle{
		Runs:   &SQLiteRunStore{db: db},
		closer: db.Close,
	}, nil
}

type SQLiteRunStore struct {
	db *sql.DB
}

func (s *SQLiteRunStore) CreateRun(question string) (string, error) {
	id := generateID()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, question) VALUES (?, ?)`,
		id, question,
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

func (s *SQLiteRunStore) CompleteRun(id, answer, envelopeJSON string) error {
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, answer = ?, envelope_json = ?, finished_at = ? WHERE id = ?`,
		StatusCompleted, answer, envelopeJSON, time.Now(), id,
	)
	return err
}

func (s *SQLiteRunStore) FailRun(id, errMsg string) error {
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		StatusFailed, errMsg, time.Now(), id,
	)
	return err
}

func (s *SQLiteRunStore) AddTaskResult(runID string, position int, taskName, sqlQuery, rowsJSON string, errMsg *string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO run_tasks (run_id, position, task_name, sql_query, rows_json, error) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, position, taskName, sqlQuery, rowsJSON, errMsg,
	)
	return err
}

func (s *SQLiteRunStore) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, question, answer, envelope_json, status, error, started_at, finished_at FROM runs WHERE id = ?`,
		id,
	)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run '%s' not found", id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLiteRunStore) GetRunTasks(runID string) ([]RunTask, error) {
	rows, err := s.db.Query(
		`SELECT run_id, position, task_name, sql_query, rows_json, error FROM run_tasks WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []RunTask
	for rows.Next() {
		var t RunTask
		var sqlQuery, rowsJSON, errMsg sql.NullString

		if err := rows.Scan(&t.RunID, &t.Position, &t.TaskName, &sqlQuery, &rowsJSON, &errMsg); err != nil {
			return nil, err
		}

		t.SQLQuery = sqlQuery.String
		t.RowsJSON = rowsJSON.String
		if errMsg.Valid {
			t.Error = &errMsg.String
		}

		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteRunStore) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, question, answer, envelope_json, status, error, started_at, finished_at FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (*Run, error) {
	var r Run
	var answer, envelopeJSON, errMsg sql.NullString
	var finishedAt sql.NullTime

	if err := sc.Scan(&r.ID, &r.Question, &answer, &envelopeJSON, &r.Status, &errMsg, &r.StartedAt, &finishedAt); err != nil {
		return nil, err
	}

	r.Answer = answer.String
	if envelopeJSON.Valid {
		r.EnvelopeJSON = &envelopeJSON.String
	}
	if errMsg.Valid {
		r.Error = &errMsg.String
	}
	if finishedAt.Valid {
		r.FinishedAt = &finishedAt.Time
	}

	return &r, nil
}
