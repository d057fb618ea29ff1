package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config holds all configuration
type Config struct {
	Variables []Variable
	Models    []Model
	Pipeline  *Pipeline
	Storage   *StorageConfig
	Server    *ServerConfig

	// ResolvedVars holds the resolved variable values for runtime use
	ResolvedVars map[string]cty.Value
}

func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadAndValidate loads the config and validates all components
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all config components are valid
func (c *Config) Validate() error {
	for _, v := range c.Variables {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("variable '%s': %w", v.Name, err)
		}
	}

	for _, m := range c.Models {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("model '%s': %w", m.Name, err)
		}
	}

	if c.Pipeline == nil {
		return fmt.Errorf("missing pipeline block")
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if c.ModelByName(c.Pipeline.Model) == nil {
		return fmt.Errorf("pipeline: unknown model '%s'", c.Pipeline.Model)
	}

	if c.Storage != nil {
		if err := c.Storage.Validate(); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}

	return nil
}

// ModelByName returns the model block with the given name, or nil
func (c *Config) ModelByName(name string) *Model {
	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i]
		}
	}
	return nil
}

func LoadFile(filename string) (*Config, error) {
	return loadFromFiles([]string{filename})
}

func LoadDir(dir string) (*Config, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.hcl"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %s", dir)
	}
	return loadFromFiles(files)
}

// parsedBlocks holds all blocks extracted from a file in one pass
type parsedBlocks struct {
	Variables []*hcl.Block
	Models    []*hcl.Block
	Pipelines []*hcl.Block
	Storages  []*hcl.Block
	Servers   []*hcl.Block
}

// loadFromFiles implements staged loading: variables → models → pipeline/storage/server
func loadFromFiles(files []string) (*Config, error) {
	parser := hclparse.NewParser()
	var allParsedBlocks []parsedBlocks

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse %s: %w", file, diags)
		}

		content, _, diags := hclFile.Body.PartialContent(&hcl.BodySchema{
			Blocks: []hcl.BlockHeaderSchema{
				{Type: "variable", LabelNames: []string{"name"}},
				{Type: "model", LabelNames: []string{"name"}},
				{Type: "pipeline"},
				{Type: "storage"},
				{Type: "server"},
			},
		})
		if diags.HasErrors() {
			return nil, fmt.Errorf("partial content %s: %w", file, diags)
		}

		var pb parsedBlocks
		for _, block := range content.Blocks {
			switch block.Type {
			case "variable":
				pb.Variables = append(pb.Variables, block)
			case "model":
				pb.Models = append(pb.Models, block)
			case "pipeline":
				pb.Pipelines = append(pb.Pipelines, block)
			case "storage":
				pb.Storages = append(pb.Storages, block)
			case "server":
				pb.Servers = append(pb.Servers, block)
			}
		}
		allParsedBlocks = append(allParsedBlocks, pb)
	}

	// Stage 1: Load variables (no context needed)
	var allVars []Variable
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Variables {
			var v Variable
			v.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, nil, &v)
			if diags.HasErrors() {
				return nil, fmt.Errorf("decode variable %s: %w", v.Name, diags)
			}
			allVars = append(allVars, v)
		}
	}

	varsCtx, resolvedVars := buildVarsContext(allVars)

	// Stage 2: Load models (with vars context)
	var allModels []Model
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Models {
			var m Model
			m.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, varsCtx, &m)
			if diags.HasErrors() {
				return nil, diags
			}
			allModels = append(allModels, m)
		}
	}

	modelsCtx := buildModelsContext(varsCtx, allModels)

	// Stage 3: Load pipeline, storage and server blocks (with full context)
	cfg := &Config{
		Variables:    allVars,
		Models:       allModels,
		ResolvedVars: resolvedVars,
	}

	for _, pb := range allParsedBlocks {
		for _, block := range pb.Pipelines {
			if cfg.Pipeline != nil {
				return nil, fmt.Errorf("duplicate pipeline block")
			}
			var p Pipeline
			diags := gohcl.DecodeBody(block.Body, modelsCtx, &p)
			if diags.HasErrors() {
				return nil, diags
			}
			p.applyDefaults()
			cfg.Pipeline = &p
		}

		for _, block := range pb.Storages {
			if cfg.Storage != nil {
				return nil, fmt.Errorf("duplicate storage block")
			}
			var s StorageConfig
			diags := gohcl.DecodeBody(block.Body, modelsCtx, &s)
			if diags.HasErrors() {
				return nil, diags
			}
			cfg.Storage = &s
		}

		for _, block := range pb.Servers {
			if cfg.Server != nil {
				return nil, fmt.Errorf("duplicate server block")
			}
			var s ServerConfig
			diags := gohcl.DecodeBody(block.Body, modelsCtx, &s)
			if diags.HasErrors() {
				return nil, diags
			}
			cfg.Server = &s
		}
	}

	return cfg, nil
}

func buildVarsContext(vars []Variable) (*hcl.EvalContext, map[string]cty.Value) {
	varsMap := make(map[string]cty.Value)
	fileVars, _ := LoadVarsFromFile()
	for _, v := range vars {
		if val, ok := fileVars[v.Name]; ok {
			varsMap[v.Name] = cty.StringVal(val)
		} else if v.Default != "" {
			varsMap[v.Name] = cty.StringVal(v.Default)
		} else {
			varsMap[v.Name] = cty.StringVal("")
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"vars": cty.ObjectVal(varsMap),
		},
	}, varsMap
}

// buildModelsContext adds models to the existing context so blocks can
// reference them as models.{name}
func buildModelsContext(ctx *hcl.EvalContext, models []Model) *hcl.EvalContext {
	modelsMap := make(map[string]cty.Value)
	for _, m := range models {
		modelsMap[m.Name] = cty.StringVal(m.Name)
	}

	newVars := make(map[string]cty.Value)
	for k, v := range ctx.Variables {
		newVars[k] = v
	}
	if len(modelsMap) > 0 {
		newVars["models"] = cty.ObjectVal(modelsMap)
	}

	return &hcl.EvalContext{
		Variables: newVars,
	}
}
