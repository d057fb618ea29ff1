package store

import "time"

// Bundle holds the stores backing run history
type Bundle struct {
	Runs   RunStore
	closer func() error
}

// Close cleans up the bundle resources
func (b *Bundle) Close() error {
	if b.closer != nil {
		return b.closer()
	}
	return nil
}

// RunStore persists pipeline runs and their per-task outcomes
type RunStore interface {
	CreateRun(question string) (id string, err error)
	CompleteRun(id, answer, envelopeJSON string) error
	FailRun(id, errMsg string) error
	AddTaskResult(runID string, position int, taskName, sqlQuery, rowsJSON string, errMsg *string) error
	GetRun(id string) (*Run, error)
	GetRunTasks(runID string) ([]RunTask, error)
	ListRuns(limit int) ([]Run, error)
}

// Run is one recorded pipeline invocation
type Run struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Answer       string     `json:"answer,omitempty"`
	EnvelopeJSON *string    `json:"envelopeJson,omitempty"`
	Status       string     `json:"status"`
	Error        *string    `json:"error,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

// RunTask is one task outcome within a run
type RunTask struct {
	RunID    string  `json:"runId"`
	Position int     `json:"position"`
	TaskName string  `json:"taskName"`
	SQLQuery string  `json:"sqlQuery"`
	RowsJSON string  `json:"rowsJson"`
	Error    *string `json:"error,omitempty"`
}

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
