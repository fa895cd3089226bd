package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/history"
	"github.com/shaiso/Cascade/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func passthrough() domain.Action {
	return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		return in, nil
	})
}

func TestRunner_Succeeded(t *testing.T) {
	store := history.NewMemoryStore()
	r := New(Config{Store: store, Logger: discardLogger()})

	p := pipeline.New("greet").Step(domain.ActionFunc(
		func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			name, _ := in.ContextValue("name")
			return in.ContinueWith("hello " + name.(string)), nil
		}))

	run, out, err := r.Execute(context.Background(), p, map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if out.Value() != "hello world" {
		t.Errorf("Value() = %v, want hello world", out.Value())
	}
	if run.Status != domain.RunStatusSucceeded {
		t.Errorf("Status = %s, want SUCCEEDED", run.Status)
	}
	if run.StartedAt == nil || run.FinishedAt == nil {
		t.Error("StartedAt/FinishedAt not set")
	}

	// Итог сохранён в истории
	saved, err := store.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if saved.Status != domain.RunStatusSucceeded {
		t.Errorf("saved Status = %s, want SUCCEEDED", saved.Status)
	}
}

func TestRunner_Halted(t *testing.T) {
	store := history.NewMemoryStore()
	r := New(Config{Store: store, Logger: discardLogger()})

	p := pipeline.New("validate").Step(domain.ActionFunc(
		func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			return in.WithError("validation", "missing email").Halt(), nil
		}))

	run, out, err := r.Execute(context.Background(), p, nil)
	// Остановка — не ошибка
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if out.ShouldContinue() {
		t.Error("ShouldContinue() = true, want false")
	}
	if run.Status != domain.RunStatusHalted {
		t.Errorf("Status = %s, want HALTED", run.Status)
	}
	if got := run.StepErrors["validation"]; len(got) != 1 || got[0] != "missing email" {
		t.Errorf("StepErrors = %v, want validation error", run.StepErrors)
	}
}

func TestRunner_Failed(t *testing.T) {
	store := history.NewMemoryStore()
	r := New(Config{Store: store, Logger: discardLogger()})

	boom := errors.New("boom")
	p := pipeline.New("broken").Step(domain.ActionFunc(
		func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			return nil, boom
		}))

	run, _, err := r.Execute(context.Background(), p, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}

	if run.Status != domain.RunStatusFailed {
		t.Errorf("Status = %s, want FAILED", run.Status)
	}
	if run.Error == "" {
		t.Error("run.Error is empty")
	}

	saved, getErr := store.GetRun(context.Background(), run.ID)
	if getErr != nil {
		t.Fatalf("GetRun() error = %v", getErr)
	}
	if saved.Status != domain.RunStatusFailed {
		t.Errorf("saved Status = %s, want FAILED", saved.Status)
	}
}

func TestRunner_InputsInContext(t *testing.T) {
	r := New(Config{Logger: discardLogger()})

	var seen map[string]any
	p := pipeline.New("inspect").Step(domain.ActionFunc(
		func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			seen = in.Context()
			return in, nil
		}))

	_, _, err := r.Execute(context.Background(), p, map[string]any{"env": "prod", "dry": true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if seen["env"] != "prod" || seen["dry"] != true {
		t.Errorf("initial context = %v, want inputs", seen)
	}
}

func TestRunner_DefaultStore(t *testing.T) {
	// Без Store используется in-memory хранилище
	r := New(Config{Logger: discardLogger()})

	p := pipeline.New("noop").Step(passthrough())
	run, _, err := r.Execute(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != domain.RunStatusSucceeded {
		t.Errorf("Status = %s, want SUCCEEDED", run.Status)
	}
}
