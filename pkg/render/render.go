// Package render turns a logic-less template plus a variable mapping into
// definition text. Templates support scalar interpolation, boolean sections
// gated on truthiness, and inverted sections gated on falsiness. Values are
// interpolated verbatim and never re-expanded, so placeholders for a later
// rendering stage can be carried as literal string values.
package render

import (
	"fmt"

	"github.com/cbroglie/mustache"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/stackgen/pkg/variables"
)

// Render produces text from tmpl and vars. Missing keys interpolate to the
// empty string; only malformed template syntax yields an error, which is a
// defect in the pattern definition rather than a runtime condition.
// Interpolation is forced raw: the output is YAML, so the engine's default
// HTML entity escaping would corrupt values like passwords containing & or ".
func Render(tmpl string, vars variables.Map) (string, error) {
	out, err := mustache.RenderRaw(tmpl, true, map[string]any(vars))
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return out, nil
}

// ValidateYAML checks that rendered definition text parses as a YAML
// document. Run after rendering so broken section nesting surfaces before
// the definition is written out.
func ValidateYAML(definition string) error {
	var doc any
	if err := yaml.Unmarshal([]byte(definition), &doc); err != nil {
		return fmt.Errorf("render: definition is not valid YAML: %w", err)
	}
	return nil
}
