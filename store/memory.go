package store

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// NewMemoryBundle creates a Bundle backed entirely by in-memory stores
func NewMemoryBundle() *Bundle {
	return &Bundle{
		Runs: &MemoryRunStore{
			runs:  make(map[string]*Run),
			tasks: make(map[string][]RunTask),
		},
	}
}

type MemoryRunStore struct {
	mu    sync.Mutex
	runs  map[string]*Run
	tasks map[string][]RunTask
}

func (s *MemoryRunStore) CreateRun(question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := generateID()
	s.runs[id] = &Run{
		ID:        id,
		Question:  question,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	return id, nil
}

func (s *MemoryRunStore) CompleteRun(id, answer, envelopeJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run '%s' not found", id)
	}
	now := time.Now()
	r.Status = StatusCompleted
	r.Answer = answer
	r.EnvelopeJSON = &envelopeJSON
	r.FinishedAt = &now
	return nil
}

func (s *MemoryRunStore) FailRun(id, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run '%s' not found", id)
	}
	now := time.Now()
	r.Status = StatusFailed
	r.Error = &errMsg
	r.FinishedAt = &now
	return nil
}

func (s *MemoryRunStore) AddTaskResult(runID string, position int, taskName, sqlQuery, rowsJSON string, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run '%s' not found", runID)
	}

	s.tasks[runID] = append(s.tasks[runID], RunTask{
		RunID:    runID,
		Position: position,
		TaskName: taskName,
		SQLQuery: sqlQuery,
		RowsJSON: rowsJSON,
		Error:    errMsg,
	})
	return nil
}

func (s *MemoryRunStore) GetRun(id string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run '%s' not found", id)
	}
	copied := *r
	return &copied, nil
}

func (s *MemoryRunStore) GetRunTasks(runID string) ([]RunTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]RunTask, len(s.tasks[runID]))
	copy(tasks, s.tasks[runID])
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Position < tasks[j].Position })
	return tasks, nil
}

func (s *MemoryRunStore) ListRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	runs := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })

	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func generateID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 12)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}
