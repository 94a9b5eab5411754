package variables

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply_FillsEveryMissingKey(t *testing.T) {
	defaults := Map{
		"instance_type": "t2.micro",
		"postgres_port": 5432,
		"use_ebs":       true,
		"snapshot_id":   nil,
	}

	got := Apply(Map{}, defaults)

	if diff := cmp.Diff(defaults, got); diff != "" {
		t.Fatalf("applied defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_NeverOverwritesPresentKeys(t *testing.T) {
	vars := Map{
		"instance_type": "m3.xlarge",
		"snapshot_id":   "snap-123",
	}
	defaults := Map{
		"instance_type": "t2.micro",
		"snapshot_id":   nil,
		"use_ebs":       true,
	}

	got := Apply(vars, defaults)

	want := Map{
		"instance_type": "m3.xlarge",
		"snapshot_id":   "snap-123",
		"use_ebs":       true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("apply overwrote values (-want +got):\n%s", diff)
	}
}

func TestApply_NilMap(t *testing.T) {
	got := Apply(nil, Map{"fstype": "ext4"})
	if got.String("fstype") != "ext4" {
		t.Fatalf("expected fstype default, got %v", got["fstype"])
	}
}

func TestSetDefault_PresentNilValueIsKept(t *testing.T) {
	vars := Map{"docker_image": nil}
	if vars.SetDefault("docker_image", "registry/app:1.0") {
		t.Fatalf("SetDefault replaced an explicitly nil value")
	}
	if vars["docker_image"] != nil {
		t.Fatalf("expected nil, got %v", vars["docker_image"])
	}
}

func TestInt_Coercions(t *testing.T) {
	vars := Map{
		"a": 5,
		"b": "300",
		"c": "not a number",
		"d": nil,
	}
	cases := map[string]int{"a": 5, "b": 300, "c": 0, "d": 0, "missing": 0}
	for key, want := range cases {
		if got := vars.Int(key); got != want {
			t.Errorf("Int(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestClone_IndependentOfSource(t *testing.T) {
	src := Map{"version": "1"}
	dst := src.Clone()
	dst["version"] = "2"
	if src.String("version") != "1" {
		t.Fatalf("clone mutated source: %v", src["version"])
	}
}
