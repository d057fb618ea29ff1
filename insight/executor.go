package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"insightql/dataset"
)

// datetimeFormat is the textual form every timestamp value takes before
// leaving the executor. No engine-native type crosses this boundary.
const datetimeFormat = "2006-01-02 15:04:05"

// ExecResult is the outcome of executing one query: either ordered rows or
// a failure message paired with the query that produced it.
type ExecResult struct {
	Rows    []Row
	Failure string
	Query   string
}

func (r ExecResult) Failed() bool {
	return r.Failure != ""
}

// SyntheticRows returns the result as the uniform row-list shape: the
// actual rows on success, or a single error row on failure.
func (r ExecResult) SyntheticRows() []Row {
	if !r.Failed() {
		return r.Rows
	}
	return []Row{{
		"error":          r.Failure,
		"query_received": r.Query,
	}}
}

// Executor runs permitted queries against a loaded table
type Executor struct {
	logger hclog.Logger
}

func NewExecutor(logger hclog.Logger) *Executor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{logger: logger}
}

// Execute runs one query against the table's engine. Engine-level errors
// never escape as Go errors; they come back as a Failure result so one bad
// query cannot abort a batch.
func (e *Executor) Execute(ctx context.Context, queryText string, table *dataset.Table) ExecResult {
	rows, err := table.DB().QueryContext(ctx, queryText)
	if err != nil {
		e.logger.Debug("query failed", "error", err)
		return failure(queryText, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return failure(queryText, err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return failure(queryText, err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = toJSONValue(values[i])
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return failure(queryText, err)
	}

	return ExecResult{Rows: out, Query: queryText}
}

func failure(queryText string, err error) ExecResult {
	return ExecResult{
		Failure: fmt.Sprintf("Query execution failed: %v", err),
		Query:   queryText,
	}
}

// toJSONValue converts an engine value to a JSON-primitive one. Timestamps
// become fixed-format strings, raw bytes become strings.
func toJSONValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(datetimeFormat)
	case []byte:
		return string(val)
	case int64, float64, bool, string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
