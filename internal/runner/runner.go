package runner

import (
	"context"
	"log/slog"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/events"
	"github.com/shaiso/Cascade/internal/history"
	"github.com/shaiso/Cascade/internal/pipeline"
	"github.com/shaiso/Cascade/internal/telemetry"
)

// Runner выполняет конвейеры и фиксирует итог каждого запуска.
//
// Runner — единственная точка, где выполнение соединяется
// с историей, событиями и метриками:
//   - история: run создаётся перед запуском и обновляется после
//   - события: run.started / run.finished в RabbitMQ (опционально)
//   - метрики: счётчик и длительность запусков
type Runner struct {
	store     history.Store
	publisher *events.Publisher
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// Config — зависимости Runner. Publisher и Metrics опциональны.
type Config struct {
	Store     history.Store
	Publisher *events.Publisher
	Metrics   *telemetry.Metrics
	Logger    *slog.Logger
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	store := cfg.Store
	if store == nil {
		store = history.NewMemoryStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:     store,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
}

// Execute выполняет конвейер с указанными входами.
//
// Входы попадают в контекст начального результата. Возвращает run
// с итоговым статусом и финальный результат конвейера. Ошибка
// возвращается только при аварии (run в статусе FAILED); остановка
// конвейера — это не ошибка, а run в статусе HALTED.
func (r *Runner) Execute(ctx context.Context, p *pipeline.Pipeline, inputs map[string]any) (*domain.Run, *domain.Outcome, error) {
	run := domain.NewRun(p.Name(), inputs)
	logger := telemetry.WithRunID(telemetry.WithPipeline(r.logger, run.Pipeline), run.ID.String())

	if err := r.store.CreateRun(ctx, run); err != nil {
		return nil, nil, err
	}

	run.MarkRunning()
	if err := r.store.UpdateRun(ctx, run); err != nil {
		return nil, nil, err
	}
	r.publishStarted(ctx, run, logger)

	logger.Info("run started", "strategy", p.Strategy())

	initial := domain.NewOutcome(nil)
	for key, value := range inputs {
		initial = initial.WithContext(key, value)
	}

	out, err := p.Run(telemetry.WithLogger(ctx, logger), initial)

	switch {
	case err != nil:
		run.MarkFailed(err.Error())
		logger.Error("run failed", "error", err)
	case !out.ShouldContinue():
		run.MarkHalted(out.Errors())
		logger.Info("run halted", "errors", out.Errors())
	default:
		run.MarkSucceeded()
		logger.Info("run succeeded", "duration", run.Duration())
	}

	if updateErr := r.store.UpdateRun(ctx, run); updateErr != nil {
		logger.Error("update run", "error", updateErr)
	}
	r.publishFinished(ctx, run, logger)
	r.metrics.ObserveRun(run.Pipeline, string(run.Status), run.Duration().Seconds())

	if err != nil {
		return run, nil, err
	}
	return run, out, nil
}

// publishStarted публикует run.started. Ошибки публикации не
// прерывают запуск.
func (r *Runner) publishStarted(ctx context.Context, run *domain.Run, logger *slog.Logger) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishRunStarted(ctx, run); err != nil {
		logger.Warn("publish run.started", "error", err)
	}
}

// publishFinished публикует run.finished.
func (r *Runner) publishFinished(ctx context.Context, run *domain.Run, logger *slog.Logger) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishRunFinished(ctx, run); err != nil {
		logger.Warn("publish run.finished", "error", err)
	}
}
