package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/stackgen/pkg/pattern"
	"github.com/goliatone/stackgen/pkg/variables"
)

type fakePattern struct {
	name      string
	defaults  variables.Map
	gather    func(pattern.Request, variables.Map) error
	rendered  string
	renderErr error

	gatherCalls int
	renderVars  variables.Map
}

func (f *fakePattern) Name() string { return f.name }

func (f *fakePattern) Defaults() variables.Map {
	return f.defaults.Clone()
}

func (f *fakePattern) Gather(_ context.Context, req pattern.Request, vars variables.Map) error {
	f.gatherCalls++
	if f.gather != nil {
		return f.gather(req, vars)
	}
	return nil
}

func (f *fakePattern) Render(vars variables.Map) (string, error) {
	f.renderVars = vars.Clone()
	if f.renderErr != nil {
		return "", f.renderErr
	}
	return f.rendered, nil
}

func TestGenerate_GatherThenDefaultsThenRender(t *testing.T) {
	p := &fakePattern{
		name:     "demo",
		defaults: variables.Map{"color": "blue", "size": 4},
		gather: func(_ pattern.Request, vars variables.Map) error {
			vars["color"] = "red"
			return nil
		},
		rendered: "SenzaInfo:\n  StackName: demo\n",
	}
	o := New(WithPatterns(p))

	out, err := o.Generate(context.Background(), Request{Pattern: "demo"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != p.rendered {
		t.Errorf("output = %q", out)
	}
	if p.gatherCalls != 1 {
		t.Errorf("gather calls = %d", p.gatherCalls)
	}

	// gathered values win over defaults; missing defaults are filled in
	want := variables.Map{"color": "red", "size": 4}
	if diff := cmp.Diff(want, p.renderVars); diff != "" {
		t.Errorf("render vars mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_SeededValuesReachGather(t *testing.T) {
	var seen variables.Map
	p := &fakePattern{
		name: "demo",
		gather: func(_ pattern.Request, vars variables.Map) error {
			seen = vars.Clone()
			return nil
		},
		rendered: "ok: true\n",
	}
	o := New(WithPatterns(p))

	seed := variables.Map{"instance_type": "t2.micro"}
	_, err := o.Generate(context.Background(), Request{Pattern: "demo", Values: seed})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if seen["instance_type"] != "t2.micro" {
		t.Errorf("seeded value missing from gather vars: %v", seen)
	}
	if _, ok := seed["ok"]; ok {
		t.Errorf("caller's value map was mutated: %v", seed)
	}
}

func TestGenerate_RequestFieldsForwarded(t *testing.T) {
	var got pattern.Request
	p := &fakePattern{
		name: "demo",
		gather: func(req pattern.Request, _ variables.Map) error {
			got = req
			return nil
		},
		rendered: "ok: true\n",
	}
	o := New(WithPatterns(p))

	_, err := o.Generate(context.Background(), Request{
		Pattern:        "demo",
		Region:         "eu-central-1",
		Account:        pattern.AccountInfo{Alias: "acme", Domain: "acme.example.org"},
		DefinitionFile: "web.yaml",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got.Region != "eu-central-1" || got.Account.Alias != "acme" || got.DefinitionFile != "web.yaml" {
		t.Errorf("request not forwarded: %+v", got)
	}
}

func TestGenerate_UnknownPattern(t *testing.T) {
	o := New(WithPatterns(&fakePattern{name: "demo", rendered: "ok: true\n"}))

	if _, err := o.Generate(context.Background(), Request{Pattern: "nope"}); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestGenerate_DefaultPatternFallback(t *testing.T) {
	demo := &fakePattern{name: "demo", rendered: "ok: true\n"}
	other := &fakePattern{name: "other", rendered: "ok: true\n"}
	o := New(WithPatterns(demo, other), WithDefaultPattern("other"))

	if _, err := o.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if other.gatherCalls != 1 || demo.gatherCalls != 0 {
		t.Errorf("default pattern not used: demo=%d other=%d", demo.gatherCalls, other.gatherCalls)
	}
}

func TestGenerate_InvalidYAMLRejected(t *testing.T) {
	p := &fakePattern{name: "demo", rendered: "key: [unclosed\n"}
	o := New(WithPatterns(p))

	if _, err := o.Generate(context.Background(), Request{Pattern: "demo"}); err == nil {
		t.Fatal("expected YAML validation error")
	}
}

func TestGenerate_GatherErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	p := &fakePattern{
		name:   "demo",
		gather: func(pattern.Request, variables.Map) error { return boom },
	}
	o := New(WithPatterns(p))

	if _, err := o.Generate(context.Background(), Request{Pattern: "demo"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestGenerate_DuplicateRegistrationSurfaces(t *testing.T) {
	o := New(WithPatterns(
		&fakePattern{name: "demo"},
		&fakePattern{name: "demo"},
	))

	if _, err := o.Generate(context.Background(), Request{Pattern: "demo"}); err == nil {
		t.Fatal("expected initialisation error for duplicate pattern")
	}
}

func TestGenerate_NilContext(t *testing.T) {
	o := New(WithPatterns(&fakePattern{name: "demo", rendered: "ok: true\n"}))

	//nolint:staticcheck // verifying the guard
	if _, err := o.Generate(nil, Request{Pattern: "demo"}); err == nil {
		t.Fatal("expected error for nil context")
	}
}

func TestWriteDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := WriteDefinition(path, []byte("ok: true\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "ok: true\n" {
		t.Errorf("content = %q", data)
	}
}
