package insight

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"insightql/config"
	"insightql/dataset"
	"insightql/llm"
	"insightql/store"
)

// Pipeline wires dataset loading, task generation, execution and
// narration into one question-to-answer run. Runs share no state: each
// invocation loads its own table and discards it at the end.
type Pipeline struct {
	cfg       *config.Pipeline
	loader    *dataset.Loader
	generator Generator
	narrator  Narrator
	runner    *Runner
	runs      store.RunStore
	logger    hclog.Logger
}

// Options configures a Pipeline. Runs and Logger are optional.
type Options struct {
	Config    *config.Pipeline
	Generator Generator
	Narrator  Narrator
	Runs      store.RunStore
	Logger    hclog.Logger
}

func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("pipeline config is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("task generator is required")
	}
	if opts.Narrator == nil {
		return nil, fmt.Errorf("narrator is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Pipeline{
		cfg:       opts.Config,
		loader:    dataset.NewLoader(logger),
		generator: opts.Generator,
		narrator:  opts.Narrator,
		runner:    NewRunner(logger),
		runs:      opts.Runs,
		logger:    logger,
	}, nil
}

// BuildPipeline constructs a fully wired Pipeline from loaded config: one
// LLM provider shared by planner and narrator, each with its configured
// temperature.
func BuildPipeline(ctx context.Context, cfg *config.Config, runs store.RunStore, logger hclog.Logger) (*Pipeline, error) {
	model := cfg.ModelByName(cfg.Pipeline.Model)
	if model == nil {
		return nil, fmt.Errorf("unknown model '%s'", cfg.Pipeline.Model)
	}

	provider, err := llm.NewProvider(ctx, string(model.Provider), model.APIKey)
	if err != nil {
		return nil, err
	}

	planner := NewLLMPlanner(
		provider, model.ModelID, cfg.Pipeline.Table,
		*cfg.Pipeline.PlannerTemperature, cfg.Pipeline.MaxTasks, logger,
	)
	narrator := NewLLMNarrator(
		provider, model.ModelID,
		*cfg.Pipeline.NarratorTemperature, logger,
	)

	return New(Options{
		Config:    cfg.Pipeline,
		Generator: planner,
		Narrator:  narrator,
		Runs:      runs,
		Logger:    logger,
	})
}

// Run answers one question end to end. The answer and the envelope are
// returned together or not at all.
func (p *Pipeline) Run(ctx context.Context, question string) (*Response, error) {
	return p.run(ctx, question, nil)
}

// RunStream behaves like Run but emits narrator output chunks as they
// arrive, for streaming consumers.
func (p *Pipeline) RunStream(ctx context.Context, question string, onChunk func(string)) (*Response, error) {
	return p.run(ctx, question, onChunk)
}

func (p *Pipeline) run(ctx context.Context, question string, onChunk func(string)) (*Response, error) {
	runID := p.recordStart(question)

	table, err := p.loader.LoadCSV(p.cfg.Dataset, p.cfg.Table, p.cfg.SchemaFile)
	if err != nil {
		p.recordFailure(runID, err)
		return nil, err
	}
	defer table.Close()

	specs, err := p.generator.PlanTasks(ctx, question, table.SchemaText())
	if err != nil {
		genErr := &GeneratorError{Err: err}
		p.recordFailure(runID, genErr)
		return nil, genErr
	}

	envelope := p.runner.Run(ctx, specs, table)
	p.recordTasks(runID, envelope)

	var answer string
	if onChunk != nil {
		answer, err = p.narrator.StreamAnswer(ctx, question, envelope, onChunk)
	} else {
		answer, err = p.narrator.GenerateAnswer(ctx, question, envelope)
	}
	if err != nil {
		narErr := &NarratorError{Err: err}
		p.recordFailure(runID, narErr)
		return nil, narErr
	}

	resp := &Response{Answer: answer, ResponseJSON: envelope}
	p.recordCompletion(runID, resp)

	return resp, nil
}

// Run-history recording is best effort: a storage hiccup must never fail
// an otherwise healthy run.

func (p *Pipeline) recordStart(question string) string {
	if p.runs == nil {
		return ""
	}
	id, err := p.runs.CreateRun(question)
	if err != nil {
		p.logger.Warn("record run start", "error", err)
		return ""
	}
	return id
}

func (p *Pipeline) recordTasks(runID string, envelope Envelope) {
	if p.runs == nil || runID == "" {
		return
	}
	for i, task := range envelope.Tasks {
		rowsJSON, err := json.Marshal(task.Rows)
		if err != nil {
			continue
		}
		var errMsg *string
		if msg, failed := taskError(task); failed {
			errMsg = &msg
		}
		if err := p.runs.AddTaskResult(runID, i, task.TaskName, task.SQLQuery, string(rowsJSON), errMsg); err != nil {
			p.logger.Warn("record task result", "task", task.TaskName, "error", err)
		}
	}
}

func (p *Pipeline) recordCompletion(runID string, resp *Response) {
	if p.runs == nil || runID == "" {
		return
	}
	envelopeJSON, err := json.Marshal(resp.ResponseJSON)
	if err != nil {
		return
	}
	if err := p.runs.CompleteRun(runID, resp.Answer, string(envelopeJSON)); err != nil {
		p.logger.Warn("record run completion", "error", err)
	}
}

func (p *Pipeline) recordFailure(runID string, runErr error) {
	if p.runs == nil || runID == "" {
		return
	}
	if err := p.runs.FailRun(runID, runErr.Error()); err != nil {
		p.logger.Warn("record run failure", "error", err)
	}
}

// taskError reports whether a task result is the synthetic failure shape
func taskError(task TaskResult) (string, bool) {
	if len(task.Rows) != 1 {
		return "", false
	}
	msg, ok := task.Rows[0]["error"].(string)
	if !ok {
		return "", false
	}
	_, hasQuery := task.Rows[0]["query_received"]
	return msg, hasQuery
}
