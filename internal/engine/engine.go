// Package engine drives one source unit through extraction, region location,
// synthesis and splicing.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"beangen/internal/config"
	"beangen/internal/generator"
	"beangen/internal/model"
	"beangen/internal/parser"
	"beangen/internal/region"
	"beangen/internal/source"
)

// Engine rewrites the generated region of source units. It holds no per-unit
// state, so one Engine may process many units concurrently.
type Engine struct {
	parser    *parser.Parser
	generator *generator.Generator
	indent    string
	runtime   string // Local name of the runtime import
	importer  string // Import path of the runtime package
}

// Result describes the outcome of processing one unit.
type Result struct {
	Target     bool   // The unit declares an entity
	Changed    bool   // Committed lines differ from the input
	Entity     string // Entity name, empty when not a target
	Properties int    // Number of properties, derived ones included
}

// New creates a new Engine.
func New(cfg config.Generator) (*Engine, error) {
	indent, err := config.ParseIndent(cfg.Indent)
	if err != nil {
		return nil, err
	}
	if cfg.Import == "" {
		return nil, fmt.Errorf("import path of the %s runtime is empty", cfg.Runtime)
	}
	gen, err := generator.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		parser:    parser.New(cfg.Runtime),
		generator: gen,
		indent:    indent,
		runtime:   cfg.Runtime,
		importer:  cfg.Import,
	}, nil
}

// Process regenerates the region of u in place, adding the runtime import when
// the unit lacks it. On error u is left untouched.
func (e *Engine) Process(u *source.Unit) (Result, error) {
	entity, err := e.parser.ParseUnit(u)
	if err != nil {
		return Result{}, err
	}
	if entity == nil {
		return Result{}, nil
	}

	work := u.Clone()
	r, err := region.Locate(work)
	if err != nil {
		return Result{}, err
	}
	region.FindOverrides(work, r, entity.Name).Apply(entity)

	lines, err := e.generator.Generate(entity)
	if err != nil {
		return Result{}, unitError(u.Name, err)
	}
	region.Replace(work, r, lines)
	if _, err := region.EnsureImport(work, e.runtime, e.importer); err != nil {
		return Result{}, err
	}
	reindent(work, e.indent)

	result := Result{
		Target:     true,
		Changed:    !work.Equal(u),
		Entity:     entity.Name,
		Properties: len(entity.Properties),
	}
	u.Lines = work.Lines
	return result, nil
}

// ProcessBytes runs Process over file content and returns the new content.
func (e *Engine) ProcessBytes(name string, data []byte) ([]byte, Result, error) {
	u := source.Parse(name, data)
	result, err := e.Process(u)
	if err != nil {
		return nil, result, err
	}
	return u.Bytes(), result, nil
}

// unitError prefixes err with the unit name unless it already carries it.
func unitError(name string, err error) error {
	var located *model.Error
	if errors.As(err, &located) {
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}

// reindent replaces every leading tab of every line with indent.
func reindent(u *source.Unit, indent string) {
	if indent == "\t" {
		return
	}
	for i, line := range u.Lines {
		trimmed := strings.TrimLeft(line, "\t")
		if n := len(line) - len(trimmed); n > 0 {
			u.Lines[i] = strings.Repeat(indent, n) + trimmed
		}
	}
}
