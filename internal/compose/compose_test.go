package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/pipeline"
	"github.com/shaiso/Cascade/internal/steps"
)

const demoSpec = `
version: 1
name: demo
steps:
  - id: base
    type: set
    config:
      context:
        region: eu
  - id: tag
    type: set
    depends_on: [base]
    config:
      context:
        tagged: true
  - id: finish
    type: transform
    depends_on: [tag]
    config:
      mappings:
        summary: "{{ .Context.region }}:{{ .Context.tagged }}"
`

func TestComposeBytes_RunsSpec(t *testing.T) {
	p, err := ComposeBytes([]byte(demoSpec), steps.DefaultRegistry())
	if err != nil {
		t.Fatalf("ComposeBytes() error = %v", err)
	}

	if p.Name() != "demo" {
		t.Errorf("Name() = %q, want demo", p.Name())
	}
	if p.Strategy() != pipeline.StrategyDependency {
		t.Errorf("Strategy() = %s, want dependency", p.Strategy())
	}

	out, err := p.Run(context.Background(), domain.NewOutcome(nil))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got, _ := out.ContextValue("summary"); got != "eu:true" {
		t.Errorf("summary = %v, want eu:true", got)
	}
}

func TestCompose_UnknownStepType(t *testing.T) {
	_, err := ComposeBytes([]byte(`
name: bad
steps:
  - id: x
    type: nonexistent
    config: {}
`), steps.DefaultRegistry())
	if !errors.Is(err, steps.ErrStepNotFound) {
		t.Errorf("ComposeBytes() error = %v, want ErrStepNotFound", err)
	}
}

func TestCompose_InvalidSyntax(t *testing.T) {
	_, err := ComposeBytes([]byte("{{{"), steps.DefaultRegistry())
	if err == nil {
		t.Error("ComposeBytes() expected error for bad syntax")
	}
}

func TestCompose_CycleRejected(t *testing.T) {
	_, err := ComposeBytes([]byte(`
name: loop
steps:
  - id: a
    type: set
    depends_on: [b]
    config: {value: 1}
  - id: b
    type: set
    depends_on: [a]
    config: {value: 2}
`), steps.DefaultRegistry())
	if err == nil {
		t.Error("ComposeBytes() expected error for cyclic dependencies")
	}
}
