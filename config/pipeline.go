package config

import "fmt"

// Pipeline configures one question-to-answer run: the dataset source, the
// registered table name, and the planner/narrator model settings.
type Pipeline struct {
	Dataset             string   `hcl:"dataset"`
	Table               string   `hcl:"table,optional"`
	SchemaFile          string   `hcl:"schema_file,optional"`
	Model               string   `hcl:"model"`
	PlannerTemperature  *float64 `hcl:"planner_temperature,optional"`
	NarratorTemperature *float64 `hcl:"narrator_temperature,optional"`
	MaxTasks            int      `hcl:"max_tasks,optional"`
}

const (
	DefaultTable               = "transactions"
	DefaultPlannerTemperature  = 0.0
	DefaultNarratorTemperature = 0.2
	DefaultMaxTasks            = 4
)

func (p *Pipeline) applyDefaults() {
	if p.Table == "" {
		p.Table = DefaultTable
	}
	if p.PlannerTemperature == nil {
		t := DefaultPlannerTemperature
		p.PlannerTemperature = &t
	}
	if p.NarratorTemperature == nil {
		t := DefaultNarratorTemperature
		p.NarratorTemperature = &t
	}
	if p.MaxTasks == 0 {
		p.MaxTasks = DefaultMaxTasks
	}
}

func (p *Pipeline) Validate() error {
	if p.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if p.Model == "" {
		return fmt.Errorf("model is required")
	}
	if p.MaxTasks < 1 {
		return fmt.Errorf("max_tasks must be at least 1")
	}
	return nil
}
