package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shaiso/Cascade/internal/domain"
)

// setContext возвращает действие, устанавливающее ключ контекста.
func setContext(key string, value any) domain.Action {
	return domain.ActionFunc(func(_ context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		return in.WithContext(key, value), nil
	})
}

// addError возвращает действие, добавляющее ошибку в категорию.
func addError(key, msg string) domain.Action {
	return domain.ActionFunc(func(_ context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		return in.WithError(key, msg), nil
	})
}

func TestRunGroup_SingleStepDirect(t *testing.T) {
	exec := NewGroupExecutor(GroupConfig{})

	out, err := exec.RunGroup(context.Background(),
		[]domain.Step{{Name: "only", Action: setContext("a", 1)}},
		domain.NewOutcome("in"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := out.ContextValue("a"); got != 1 {
		t.Errorf("expected a=1, got %v", got)
	}
	if out.Value() != "in" {
		t.Errorf("value should pass through, got %v", out.Value())
	}
}

func TestRunGroup_EmptyGroup(t *testing.T) {
	exec := NewGroupExecutor(GroupConfig{})
	in := domain.NewOutcome("x")

	out, err := exec.RunGroup(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Error("empty group should return the input unchanged")
	}
}

func TestRunGroup_MergesContexts(t *testing.T) {
	// Два шага над пустым контекстом: step1 ставит a=1, step2 ставит b=2
	exec := NewGroupExecutor(GroupConfig{})

	out, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "step1", Action: setContext("a", 1)},
		{Name: "step2", Action: setContext("b", 2)},
	}, domain.NewOutcome(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{"a": 1, "b": 2}
	if !reflect.DeepEqual(out.Context(), want) {
		t.Errorf("expected %v, got %v", want, out.Context())
	}
}

func TestRunGroup_MergesErrorsInDeclarationOrder(t *testing.T) {
	// step1 добавляет validation:E1, step2 добавляет validation:E2
	exec := NewGroupExecutor(GroupConfig{})

	out, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "step1", Action: addError("validation", "E1")},
		{Name: "step2", Action: addError("validation", "E2")},
	}, domain.NewOutcome(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(out.ErrorsFor("validation"), []string{"E1", "E2"}) {
		t.Errorf("expected [E1 E2], got %v", out.ErrorsFor("validation"))
	}
}

func TestRunGroup_SharedImmutableInput(t *testing.T) {
	// Оба шага видят исходный вход, а не результаты друг друга
	exec := NewGroupExecutor(GroupConfig{})
	in := domain.NewOutcome(nil).WithContext("base", "shared")

	sawBase := make(chan bool, 2)
	peek := domain.ActionFunc(func(_ context.Context, o *domain.Outcome) (*domain.Outcome, error) {
		_, hasBase := o.ContextValue("base")
		_, hasSibling := o.ContextValue("sibling")
		sawBase <- hasBase && !hasSibling
		return o.WithContext("sibling", true), nil
	})

	_, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "left", Action: peek},
		{Name: "right", Action: peek},
	}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if !<-sawBase {
			t.Error("each step must see the original input, not a sibling's output")
		}
	}
}

func TestRunGroup_ActualConcurrency(t *testing.T) {
	// Каждый шаг ждёт сигнала от соседа: завершиться они могут
	// только если действительно выполняются одновременно.
	exec := NewGroupExecutor(GroupConfig{})

	first := make(chan struct{})
	second := make(chan struct{})

	rendezvous := func(mine, other chan struct{}) domain.Action {
		return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			close(mine)
			select {
			case <-other:
				return in, nil
			case <-time.After(5 * time.Second):
				return nil, errors.New("steps are not running concurrently")
			}
		})
	}

	_, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "a", Action: rendezvous(first, second)},
		{Name: "b", Action: rendezvous(second, first)},
	}, domain.NewOutcome(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunGroup_HaltPropagation(t *testing.T) {
	exec := NewGroupExecutor(GroupConfig{})

	halt := domain.ActionFunc(func(_ context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		return in.Halt(), nil
	})

	out, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "ok", Action: setContext("a", 1)},
		{Name: "stop", Action: halt},
	}, domain.NewOutcome(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.ShouldContinue() {
		t.Error("group must halt if any member halted")
	}
	// Остановка соседа не отменяет шаг: его контекст в результате
	if got, _ := out.ContextValue("a"); got != 1 {
		t.Error("sibling results must survive a halt")
	}
}

func TestRunGroup_ValueFromLastContinuing(t *testing.T) {
	exec := NewGroupExecutor(GroupConfig{})

	cont := func(v any) domain.Action {
		return domain.ActionFunc(func(_ context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			return in.ContinueWith(v), nil
		})
	}
	haltWith := func(v any) domain.Action {
		return domain.ActionFunc(func(_ context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			return in.HaltWith(v), nil
		})
	}

	// Последний продолжающий в порядке объявления — b, несмотря на
	// недетерминированный порядок фактического завершения
	out, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "a", Action: cont("a")},
		{Name: "b", Action: cont("b")},
		{Name: "c", Action: haltWith("c")},
	}, domain.NewOutcome(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value() != "b" {
		t.Errorf("expected b, got %v", out.Value())
	}
}

func TestRunGroup_FaultFailsWholeGroup(t *testing.T) {
	exec := NewGroupExecutor(GroupConfig{})
	boom := errors.New("boom")

	fail := domain.ActionFunc(func(_ context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		return nil, boom
	})

	_, err := exec.RunGroup(context.Background(), []domain.Step{
		{Name: "ok", Action: setContext("a", 1)},
		{Name: "bad", Action: fail},
	}, domain.NewOutcome(nil))

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestRunGroup_SequentialFallbackParity(t *testing.T) {
	// Последовательный фолбэк обязан давать идентичный результат
	steps := []domain.Step{
		{Name: "s1", Action: setContext("a", 1)},
		{Name: "s2", Action: setContext("key", "first")},
		{Name: "s3", Action: setContext("key", "second")},
		{Name: "s4", Action: addError("cat", "m1")},
		{Name: "s5", Action: addError("cat", "m2")},
	}
	in := domain.NewOutcome("seed")

	concurrent, err := NewGroupExecutor(GroupConfig{}).RunGroup(context.Background(), steps, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sequential, err := NewGroupExecutor(GroupConfig{Sequential: true}).RunGroup(context.Background(), steps, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(concurrent.Context(), sequential.Context()) {
		t.Errorf("context mismatch: %v vs %v", concurrent.Context(), sequential.Context())
	}
	if !reflect.DeepEqual(concurrent.Errors(), sequential.Errors()) {
		t.Errorf("errors mismatch: %v vs %v", concurrent.Errors(), sequential.Errors())
	}
	if concurrent.Value() != sequential.Value() {
		t.Errorf("value mismatch: %v vs %v", concurrent.Value(), sequential.Value())
	}
	if concurrent.ShouldContinue() != sequential.ShouldContinue() {
		t.Error("continuation flag mismatch")
	}
}
