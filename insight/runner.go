package insight

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"insightql/dataset"
)

// Runner executes a batch of task specs against one table and assembles
// the unified envelope.
type Runner struct {
	executor *Executor
	logger   hclog.Logger
}

func NewRunner(logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{
		executor: NewExecutor(logger),
		logger:   logger,
	}
}

// Run executes specs in order. Every spec yields exactly one TaskResult,
// success or failure, in the input order; no per-task problem aborts the
// batch or surfaces as an error.
func (r *Runner) Run(ctx context.Context, specs []TaskSpec, table *dataset.Table) Envelope {
	env := Envelope{Tasks: make([]TaskResult, 0, len(specs))}

	for _, spec := range specs {
		queryText := strings.TrimSpace(spec.SQLQuery)

		var result ExecResult
		if !Permits(queryText) {
			r.logger.Warn("query rejected", "task", spec.TaskName)
			result = ExecResult{Failure: RejectedQueryMessage, Query: queryText}
		} else {
			result = r.executor.Execute(ctx, queryText, table)
			if result.Failed() {
				r.logger.Warn("task failed", "task", spec.TaskName, "error", result.Failure)
			}
		}

		env.Tasks = append(env.Tasks, TaskResult{
			TaskName:        spec.TaskName,
			TaskDescription: spec.TaskDescription,
			SQLQuery:        spec.SQLQuery,
			Rows:            result.SyntheticRows(),
		})
	}

	return env
}
