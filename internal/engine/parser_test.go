package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseSpec_JSON(t *testing.T) {
	data := []byte(`{
		"name": "sync-orders",
		"steps": [
			{"id": "fetch", "type": "http", "config": {"url": "http://example.com"}},
			{"id": "store", "type": "transform", "depends_on": ["fetch"]}
		]
	}`)

	spec, err := ParseSpec(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "sync-orders" {
		t.Errorf("expected sync-orders, got %s", spec.Name)
	}
	if len(spec.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(spec.Steps))
	}
	if spec.Steps[1].DependsOn[0] != "fetch" {
		t.Errorf("store should depend on fetch, got %v", spec.Steps[1].DependsOn)
	}
	if spec.Steps[0].Config["url"] != "http://example.com" {
		t.Errorf("config not parsed: %v", spec.Steps[0].Config)
	}
}

func TestParseSpec_YAML(t *testing.T) {
	data := []byte(`
name: daily-report
schedule: "0 9 * * *"
inputs:
  region: eu
steps:
  - id: collect
    type: http
  - id: render
    type: transform
    depends_on: [collect]
`)

	spec, err := ParseSpec(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Schedule != "0 9 * * *" {
		t.Errorf("expected cron schedule, got %q", spec.Schedule)
	}
	if spec.Inputs["region"] != "eu" {
		t.Errorf("expected region eu, got %v", spec.Inputs["region"])
	}
	if !reflect.DeepEqual(spec.Steps[1].DependsOn, []string{"collect"}) {
		t.Errorf("render should depend on collect, got %v", spec.Steps[1].DependsOn)
	}
}

func TestParseSpec_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty input", "", ErrSpecSyntax},
		{"broken json", `{"name": `, ErrSpecSyntax},
		{"no steps", `{"name": "x"}`, ErrEmptySteps},
		{"empty step id", `{"steps": [{"type": "http"}]}`, ErrEmptyStepID},
		{"empty step type", `{"steps": [{"id": "a"}]}`, ErrEmptyStepType},
		{"duplicate id", `{"steps": [{"id": "a", "type": "http"}, {"id": "a", "type": "delay"}]}`, ErrDuplicateStepID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSpec([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPipelineSpec_Decls(t *testing.T) {
	spec := &PipelineSpec{
		Steps: []SpecStep{
			{ID: "a", Type: "set"},
			{ID: "b", Type: "set", DependsOn: []string{"a"}},
		},
	}

	decls := spec.Decls()
	want := []NodeDecl{
		{Name: "a"},
		{Name: "b", DependsOn: []string{"a"}},
	}
	if !reflect.DeepEqual(decls, want) {
		t.Errorf("expected %v, got %v", want, decls)
	}

	// Объявления пригодны для построения графа
	if _, err := BuildGraph(decls); err != nil {
		t.Errorf("decls should build a valid graph: %v", err)
	}
}
