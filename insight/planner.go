package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"insightql/llm"
)

// Generator turns a question plus schema description into an ordered list
// of task specs. The returned query text is untrusted: the runner guards
// and contains it per task.
type Generator interface {
	PlanTasks(ctx context.Context, question, schemaDescription string) ([]TaskSpec, error)
}

// LLMPlanner is the model-backed Generator
type LLMPlanner struct {
	provider    llm.Provider
	modelID     string
	tableName   string
	temperature float64
	maxTasks    int
	logger      hclog.Logger
}

func NewLLMPlanner(provider llm.Provider, modelID, tableName string, temperature float64, maxTasks int, logger hclog.Logger) *LLMPlanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LLMPlanner{
		provider:    provider,
		modelID:     modelID,
		tableName:   tableName,
		temperature: temperature,
		maxTasks:    maxTasks,
		logger:      logger,
	}
}

func (p *LLMPlanner) PlanTasks(ctx context.Context, question, schemaDescription string) ([]TaskSpec, error) {
	session := llm.NewSession(p.provider, p.modelID, plannerSystemPrompt)
	session.SetTemperature(p.temperature)

	resp, err := session.Send(ctx, buildPlannerPrompt(question, schemaDescription, p.tableName, p.maxTasks))
	if err != nil {
		return nil, fmt.Errorf("plan tasks: %w", err)
	}

	specs, err := parseTaskPlan(resp.Content)
	if err != nil {
		return nil, err
	}

	p.logger.Info("tasks planned", "count", len(specs))
	return specs, nil
}

// fencedJSONRe matches a ```json ... ``` (or bare ```) block
var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseTaskPlan extracts the strict-JSON task list from model output,
// tolerating a fenced code block or surrounding prose.
func parseTaskPlan(content string) ([]TaskSpec, error) {
	raw := content
	if match := fencedJSONRe.FindStringSubmatch(content); match != nil {
		raw = match[1]
	} else {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("task generator returned no JSON object")
		}
		raw = content[start : end+1]
	}

	var plan struct {
		Tasks []TaskSpec `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("parse task plan: %w", err)
	}

	specs := make([]TaskSpec, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		if t.TaskName == "" {
			t.TaskName = "Unnamed Task"
		}
		specs = append(specs, t)
	}
	return specs, nil
}
