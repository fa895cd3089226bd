package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/telemetry"
)

// GroupExecutor выполняет группу независимых шагов над общим входом.
//
// GroupExecutor не хранит состояние между вызовами — это операция
// над (шаги, входной Outcome) → слитый Outcome. Шаги одной группы
// по построению не зависят друг от друга, поэтому все они получают
// один и тот же входной Outcome и не видят результатов соседей.
type GroupExecutor struct {
	sequential bool
	logger     *slog.Logger
	metrics    *telemetry.Metrics
}

// GroupConfig — конфигурация GroupExecutor.
type GroupConfig struct {
	// Sequential включает последовательный фолбэк: шаги группы
	// выполняются один за другим вместо fan-out по горутинам.
	// Семантика слияния идентична параллельному пути.
	Sequential bool

	// Logger — логгер (опционально; по умолчанию slog.Default()).
	Logger *slog.Logger

	// Metrics — метрики (опционально).
	Metrics *telemetry.Metrics
}

// NewGroupExecutor создаёт GroupExecutor.
func NewGroupExecutor(cfg GroupConfig) *GroupExecutor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupExecutor{
		sequential: cfg.Sequential,
		logger:     logger,
		metrics:    cfg.Metrics,
	}
}

// RunGroup выполняет группу шагов над входным Outcome и сливает
// результаты в один Outcome.
//
// Группа из одного шага вызывается напрямую, без слияния. Группа
// из нескольких шагов выполняется конкурентно (или последовательно
// в режиме фолбэка) с барьером: результат не формируется, пока не
// завершатся все участники. Остановка одного участника не отменяет
// остальных — отмена между группами входит в обязанности Pipeline.
//
// Слияние детерминировано: результаты сливаются в порядке объявления
// шагов, а не в порядке их фактического завершения.
//
// Ошибка любого действия — авария всей группы: возвращается первая
// ошибка в порядке объявления, результаты соседей отбрасываются.
func (e *GroupExecutor) RunGroup(ctx context.Context, steps []domain.Step, in *domain.Outcome) (*domain.Outcome, error) {
	switch len(steps) {
	case 0:
		return in, nil
	case 1:
		out, err := steps[0].Action.Execute(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", stepLabel(steps[0], 0), err)
		}
		return out, nil
	}

	e.metrics.ObserveGroup(len(steps))

	var (
		outs []*domain.Outcome
		errs []error
	)
	if e.sequential {
		outs, errs = e.runSequential(ctx, steps, in)
	} else {
		outs, errs = e.runConcurrent(ctx, steps, in)
	}

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", stepLabel(steps[i], i), err)
		}
	}

	merged := domain.MergeOutcomes(outs)

	e.logger.Debug("group merged",
		"steps", len(steps),
		"continue", merged.ShouldContinue(),
	)

	return merged, nil
}

// runConcurrent запускает по горутине на шаг и ждёт всех (fan-out/fan-in).
// Входной Outcome неизменяем, поэтому разделяется без блокировок.
func (e *GroupExecutor) runConcurrent(ctx context.Context, steps []domain.Step, in *domain.Outcome) ([]*domain.Outcome, []error) {
	outs := make([]*domain.Outcome, len(steps))
	errs := make([]error, len(steps))

	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		go func(i int, step domain.Step) {
			defer wg.Done()
			outs[i], errs[i] = step.Action.Execute(ctx, in)
		}(i, step)
	}
	wg.Wait()

	return outs, errs
}

// runSequential — фолбэк без конкурентности. Каждый шаг всё равно
// получает исходный входной Outcome, а не результат соседа, поэтому
// слитый результат побайтово совпадает с параллельным путём.
func (e *GroupExecutor) runSequential(ctx context.Context, steps []domain.Step, in *domain.Outcome) ([]*domain.Outcome, []error) {
	outs := make([]*domain.Outcome, len(steps))
	errs := make([]error, len(steps))

	for i, step := range steps {
		outs[i], errs[i] = step.Action.Execute(ctx, in)
	}

	return outs, errs
}

// stepLabel возвращает имя шага для сообщений об ошибках.
// Безымянные шаги обозначаются позицией.
func stepLabel(step domain.Step, index int) string {
	if step.Name != "" {
		return step.Name
	}
	return fmt.Sprintf("#%d", index)
}
