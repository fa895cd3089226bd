package engine

import (
	"errors"
	"testing"

	"github.com/shaiso/Cascade/internal/domain"
)

func TestRenderTemplate_Context(t *testing.T) {
	o := domain.NewOutcome("payload").
		WithContext("user", "alice").
		WithContext("count", 3)

	got, err := RenderTemplate("{{ .Context.user }}:{{ .Context.count }}", o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "alice:3" {
		t.Errorf("expected alice:3, got %q", got)
	}
}

func TestRenderTemplate_Value(t *testing.T) {
	o := domain.NewOutcome(42)

	got, err := RenderTemplate("value={{ .Value }}", o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value=42" {
		t.Errorf("expected value=42, got %q", got)
	}
}

func TestRenderTemplate_Funcs(t *testing.T) {
	o := domain.NewOutcome(nil).WithContext("items", []string{"a", "b"})

	got, err := RenderTemplate(`{{ json .Context.items }}`, o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `["a","b"]` {
		t.Errorf("expected JSON array, got %q", got)
	}

	got, err = RenderTemplate(`{{ default "fallback" .Context.missing_ok }}`, domain.NewOutcome(nil).WithContext("missing_ok", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestRenderTemplate_Errors(t *testing.T) {
	o := domain.NewOutcome(nil)

	// Синтаксическая ошибка шаблона
	if _, err := RenderTemplate("{{ .Context.x", o); !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}

	// Отсутствующий ключ контекста — ошибка, не "<no value>"
	if _, err := RenderTemplate("{{ .Context.missing }}", o); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("expected ErrTemplateRender, got %v", err)
	}
}
