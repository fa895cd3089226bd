package domain

import (
	"reflect"
	"testing"
)

// Outcome Tests

func TestNewOutcome(t *testing.T) {
	o := NewOutcome("payload")

	if o.Value() != "payload" {
		t.Errorf("expected payload, got %v", o.Value())
	}
	if !o.ShouldContinue() {
		t.Error("new outcome should continue by default")
	}
	if o.HasErrors() {
		t.Error("new outcome should have no errors")
	}
	if len(o.Context()) != 0 {
		t.Error("new outcome should have empty context")
	}
}

func TestOutcome_WithContext(t *testing.T) {
	base := NewOutcome("v")
	next := base.WithContext("key", 42)

	// Новый Outcome содержит ключ
	got, ok := next.ContextValue("key")
	if !ok || got != 42 {
		t.Errorf("expected key=42, got %v (ok=%v)", got, ok)
	}

	// Исходный Outcome не изменился
	if _, ok := base.ContextValue("key"); ok {
		t.Error("original outcome must not be modified")
	}

	// Значение и флаг не затронуты
	if next.Value() != "v" || !next.ShouldContinue() {
		t.Error("WithContext must not touch value or continuation flag")
	}

	// Перезапись существующего ключа
	overwritten := next.WithContext("key", "new")
	if got, _ := overwritten.ContextValue("key"); got != "new" {
		t.Errorf("expected overwritten value, got %v", got)
	}
	if got, _ := next.ContextValue("key"); got != 42 {
		t.Error("overwrite must not leak into the receiver")
	}
}

func TestOutcome_WithError(t *testing.T) {
	base := NewOutcome(nil)
	next := base.WithError("validation", "E1").WithError("validation", "E2")

	msgs := next.ErrorsFor("validation")
	if !reflect.DeepEqual(msgs, []string{"E1", "E2"}) {
		t.Errorf("expected [E1 E2], got %v", msgs)
	}

	// Исходный Outcome не изменился
	if base.HasErrors() {
		t.Error("original outcome must not accumulate errors")
	}

	// WithError не останавливает поток
	if !next.ShouldContinue() {
		t.Error("WithError must not change the continuation flag")
	}
}

func TestOutcome_Halt(t *testing.T) {
	base := NewOutcome("kept")

	halted := base.Halt()
	if halted.ShouldContinue() {
		t.Error("halted outcome should not continue")
	}
	// Halt без значения сохраняет текущее
	if halted.Value() != "kept" {
		t.Errorf("Halt must keep the value, got %v", halted.Value())
	}

	// HaltWith заменяет значение
	replaced := base.HaltWith("new")
	if replaced.ShouldContinue() || replaced.Value() != "new" {
		t.Errorf("HaltWith should stop with value new, got %v", replaced.Value())
	}

	// Исходный Outcome продолжает
	if !base.ShouldContinue() {
		t.Error("original outcome must not be halted")
	}
}

func TestOutcome_ContinueWithClearsHalt(t *testing.T) {
	// Документированное поведение: ContinueWith после Halt снимает
	// остановку. Остановка не "липкая".
	halted := NewOutcome("x").Halt()

	resumed := halted.ContinueWith("y")
	if !resumed.ShouldContinue() {
		t.Error("ContinueWith must force the continuation flag to true")
	}
	if resumed.Value() != "y" {
		t.Errorf("expected value y, got %v", resumed.Value())
	}
}

func TestOutcome_MutatorsAreValueIdempotent(t *testing.T) {
	// Два одинаковых вызова от одной базы дают равные по значению,
	// но разные по идентичности результаты.
	base := NewOutcome(1).WithContext("a", "b")

	first := base.WithError("cat", "msg")
	second := base.WithError("cat", "msg")

	if first == second {
		t.Error("mutators must return distinct instances")
	}
	if !reflect.DeepEqual(first.Errors(), second.Errors()) {
		t.Error("same mutation from same base must be value-equal")
	}
	if !reflect.DeepEqual(first.Context(), second.Context()) {
		t.Error("contexts must be value-equal")
	}
}

func TestOutcome_AccessorsReturnCopies(t *testing.T) {
	o := NewOutcome(nil).WithContext("k", "v").WithError("e", "m")

	// Модификация возвращённых карт не влияет на Outcome
	ctx := o.Context()
	ctx["k"] = "mutated"
	if got, _ := o.ContextValue("k"); got != "v" {
		t.Error("Context() must return a copy")
	}

	errs := o.Errors()
	errs["e"][0] = "mutated"
	if o.ErrorsFor("e")[0] != "m" {
		t.Error("Errors() must return a deep copy")
	}
}

// MergeOutcomes Tests

func TestMergeOutcomes_DisjointContext(t *testing.T) {
	in := NewOutcome(nil)
	a := in.WithContext("a", 1)
	b := in.WithContext("b", 2)

	merged := MergeOutcomes([]*Outcome{a, b})

	want := map[string]any{"a": 1, "b": 2}
	if !reflect.DeepEqual(merged.Context(), want) {
		t.Errorf("expected %v, got %v", want, merged.Context())
	}

	// Для непересекающихся ключей порядок не важен
	reversed := MergeOutcomes([]*Outcome{b, a})
	if !reflect.DeepEqual(reversed.Context(), want) {
		t.Errorf("merge of disjoint keys must be order-independent, got %v", reversed.Context())
	}
}

func TestMergeOutcomes_ContextCollision(t *testing.T) {
	in := NewOutcome(nil)
	a := in.WithContext("key", "first")
	b := in.WithContext("key", "second")

	merged := MergeOutcomes([]*Outcome{a, b})

	// Поздний по порядку объявления шаг побеждает
	if got, _ := merged.ContextValue("key"); got != "second" {
		t.Errorf("expected second, got %v", got)
	}
}

func TestMergeOutcomes_ErrorConcatenation(t *testing.T) {
	in := NewOutcome(nil)
	a := in.WithError("validation", "E1")
	b := in.WithError("validation", "E2")

	merged := MergeOutcomes([]*Outcome{a, b})

	if !reflect.DeepEqual(merged.ErrorsFor("validation"), []string{"E1", "E2"}) {
		t.Errorf("expected [E1 E2], got %v", merged.ErrorsFor("validation"))
	}
}

func TestMergeOutcomes_Value(t *testing.T) {
	in := NewOutcome(nil)

	// value — последний продолжающий в порядке объявления
	merged := MergeOutcomes([]*Outcome{
		in.ContinueWith("a"),
		in.ContinueWith("b"),
		in.HaltWith("c"),
	})
	if merged.Value() != "b" {
		t.Errorf("expected value of last continuing outcome, got %v", merged.Value())
	}

	// Если все остановились — значение последнего вообще
	allHalted := MergeOutcomes([]*Outcome{
		in.HaltWith("x"),
		in.HaltWith("y"),
	})
	if allHalted.Value() != "y" {
		t.Errorf("expected value of last outcome, got %v", allHalted.Value())
	}
}

func TestMergeOutcomes_HaltPropagation(t *testing.T) {
	in := NewOutcome(nil)

	merged := MergeOutcomes([]*Outcome{
		in.ContinueWith(1),
		in.Halt(),
		in.ContinueWith(2),
	})
	if merged.ShouldContinue() {
		t.Error("merged outcome must halt if any member halted")
	}

	allContinue := MergeOutcomes([]*Outcome{in.ContinueWith(1), in.ContinueWith(2)})
	if !allContinue.ShouldContinue() {
		t.Error("merged outcome must continue if all members continued")
	}
}

func TestMergeOutcomes_Empty(t *testing.T) {
	merged := MergeOutcomes(nil)
	if merged == nil || !merged.ShouldContinue() {
		t.Error("merge of empty list should produce a fresh continuing outcome")
	}
}
