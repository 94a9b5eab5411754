// Package scaffold coordinates the full pipeline from pattern selection to
// a validated definition document: resolve the pattern, run its interactive
// gather flow, apply its default variable table, and render the result.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/stackgen/pkg/pattern"
	"github.com/goliatone/stackgen/pkg/render"
	"github.com/goliatone/stackgen/pkg/variables"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a pattern registry.
func WithRegistry(registry *pattern.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithPatterns registers patterns into the orchestrator's registry.
func WithPatterns(patterns ...pattern.Pattern) Option {
	return func(o *Orchestrator) {
		o.pending = append(o.pending, patterns...)
	}
}

// WithDefaultPattern overrides the pattern used when a request omits an
// explicit Pattern field.
func WithDefaultPattern(name string) Option {
	return func(o *Orchestrator) {
		o.defaultPattern = name
	}
}

// Orchestrator runs the gather-then-render sequence for a registered
// pattern. Missing dependencies are initialised with built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	registry       *pattern.Registry
	defaultPattern string
	pending        []pattern.Pattern
	initialiseErr  error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = pattern.NewRegistry()
	}
	for _, p := range o.pending {
		if err := o.registry.Register(p); err != nil {
			o.initialiseErr = err
			break
		}
	}
	o.pending = nil
	return o
}

// Request describes the inputs required to produce a definition.
type Request struct {
	// Pattern names the pattern to scaffold. If empty, the orchestrator
	// falls back to the configured default pattern.
	Pattern string

	// Region is the target region.
	Region string

	// Account describes the account the stack will run in.
	Account pattern.AccountInfo

	// DefinitionFile is where the caller intends to write the result.
	// Patterns that emit companion files derive their names from it.
	DefinitionFile string

	// Values pre-seeds variables; seeded keys are never prompted for.
	Values variables.Map
}

// Generate executes the gather → defaults → render → validate sequence and
// returns the definition text as bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("scaffold: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	p, err := o.patternFor(req.Pattern)
	if err != nil {
		return nil, err
	}

	vars := req.Values.Clone()
	preq := pattern.Request{
		Region:         req.Region,
		Account:        req.Account,
		DefinitionFile: req.DefinitionFile,
	}
	if err := p.Gather(ctx, preq, vars); err != nil {
		return nil, err
	}

	vars = variables.Apply(vars, p.Defaults())

	definition, err := p.Render(vars)
	if err != nil {
		return nil, fmt.Errorf("scaffold: render definition: %w", err)
	}
	if err := render.ValidateYAML(definition); err != nil {
		return nil, fmt.Errorf("scaffold: generated definition is not valid YAML: %w", err)
	}

	return []byte(definition), nil
}

func (o *Orchestrator) patternFor(name string) (pattern.Pattern, error) {
	target := name
	if target == "" {
		target = o.defaultPattern
	}

	if target != "" {
		p, err := o.registry.Get(target)
		if err == nil {
			return p, nil
		}
		if name != "" {
			return nil, fmt.Errorf("scaffold: pattern %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("scaffold: no patterns registered")
	}
	return o.registry.Get(names[0])
}

// Patterns lists the registered pattern names.
func (o *Orchestrator) Patterns() []string {
	return o.registry.List()
}

// WriteDefinition writes a generated definition to path.
func WriteDefinition(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scaffold: writing definition: %w", err)
	}
	return nil
}
