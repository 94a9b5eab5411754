package render

import (
	"strings"
	"testing"

	"github.com/goliatone/stackgen/pkg/variables"
)

func TestRender_Interpolation(t *testing.T) {
	out, err := Render("port {{port}} on {{host}}", variables.Map{"port": 5432, "host": "db.example.com"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "port 5432 on db.example.com" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRender_MissingKeyIsEmpty(t *testing.T) {
	out, err := Render("value: [{{never_set}}]", variables.Map{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "value: []" {
		t.Fatalf("missing key did not collapse to empty: %q", out)
	}
}

func TestRender_SectionTruthiness(t *testing.T) {
	tmpl := "{{#use_ebs}}ebs{{/use_ebs}}{{^use_ebs}}ephemeral{{/use_ebs}}"

	cases := []struct {
		name string
		vars variables.Map
		want string
	}{
		{"true renders section", variables.Map{"use_ebs": true}, "ebs"},
		{"false renders inverted", variables.Map{"use_ebs": false}, "ephemeral"},
		{"nil renders inverted", variables.Map{"use_ebs": nil}, "ephemeral"},
		{"absent renders inverted", variables.Map{}, "ephemeral"},
		{"non-empty string renders section", variables.Map{"use_ebs": "snap-1"}, "ebs"},
		{"empty string renders inverted", variables.Map{"use_ebs": ""}, "ephemeral"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Render(tmpl, tc.vars)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if out != tc.want {
				t.Fatalf("got %q, want %q", out, tc.want)
			}
		})
	}
}

func TestRender_SecondStageLiteralsPassThrough(t *testing.T) {
	// Values holding placeholder text for a later rendering stage are
	// interpolated verbatim and never expanded again during this pass.
	tmpl := `source: "{{image}}:{{ImageVersion}}"`
	out, err := Render(tmpl, variables.Map{
		"image":        "stups/hello-world",
		"ImageVersion": "{{Arguments.ImageVersion}}",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `source: "stups/hello-world:{{Arguments.ImageVersion}}"`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRender_SpecialCharactersSurviveVerbatim(t *testing.T) {
	// The output is YAML, not HTML: characters the engine would normally
	// entity-escape must reach the definition untouched.
	out, err := Render(`PGPASSWORD_ADMIN: "{{pgpassword_admin}}"`,
		variables.Map{"pgpassword_admin": `p&ss<w0rd>"x`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `PGPASSWORD_ADMIN: "p&ss<w0rd>"x"`
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRender_MalformedTemplate(t *testing.T) {
	if _, err := Render("{{#open}}never closed", variables.Map{}); err == nil {
		t.Fatalf("expected error for unclosed section")
	}
}

func TestValidateYAML(t *testing.T) {
	if err := ValidateYAML("SenzaInfo:\n  StackName: spilo\n"); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
	err := ValidateYAML("key: [unclosed\n  nested: {")
	if err == nil {
		t.Fatalf("invalid document accepted")
	}
	if !strings.Contains(err.Error(), "not valid YAML") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
