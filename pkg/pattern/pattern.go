// Package pattern defines the contract an application pattern implements:
// a default variable table, an interactive gather flow, and a template
// render step producing Senza-compatible definition text.
package pattern

import (
	"context"

	"github.com/goliatone/stackgen/pkg/variables"
)

// AccountInfo carries the per-account facts gather flows consult. The
// caller resolves these once per invocation.
type AccountInfo struct {
	Alias  string
	Domain string
	VpcID  string
}

// Request holds the per-invocation inputs available to a gather flow.
type Request struct {
	// Region is the target region of the definition.
	Region string

	// Account describes the account the stack will run in.
	Account AccountInfo

	// DefinitionFile is the path the caller intends to write the rendered
	// definition to. Patterns that emit companion files (e.g. a shared
	// base-resources stack) derive their names from it.
	DefinitionFile string
}

// Pattern is one deployable application shape.
type Pattern interface {
	// Name is the identifier the pattern registers under.
	Name() string

	// Defaults returns a fresh copy of the pattern's default variable
	// table. Applying it is purely additive; present keys stay untouched.
	Defaults() variables.Map

	// Gather interactively fills vars with operator-provided values.
	// Pre-seeded keys are respected and not asked again.
	Gather(ctx context.Context, req Request, vars variables.Map) error

	// Render produces the definition text for a fully-populated mapping.
	Render(vars variables.Map) (string, error)
}

// UsageError marks operator-facing failures, such as a required external
// resource being entirely absent, that should surface as a plain message
// and a non-zero exit rather than a stack trace.
type UsageError string

func (e UsageError) Error() string {
	return string(e)
}
