package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Trigger запускает конвейеры по расписанию.
//
// Обёртка над robfig/cron с нашим парсером (пять полей) и
// структурным логированием срабатываний.
type Trigger struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewTrigger создаёт новый Trigger.
func NewTrigger(logger *slog.Logger) *Trigger {
	return &Trigger{
		cron:   cron.New(cron.WithParser(cronParser)),
		logger: logger,
	}
}

// Add регистрирует job по cron-выражению.
// Возвращает ошибку, если выражение невалидно.
func (t *Trigger) Add(name, expr string, job func(ctx context.Context)) error {
	_, err := t.cron.AddFunc(expr, func() {
		t.logger.Info("schedule fired", "pipeline", name, "cron", expr)
		job(context.Background())
	})
	if err != nil {
		return fmt.Errorf("add schedule %s: %w", name, err)
	}
	return nil
}

// Start запускает планировщик в фоне.
func (t *Trigger) Start() {
	t.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных jobs.
func (t *Trigger) Stop(ctx context.Context) error {
	done := t.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries возвращает количество зарегистрированных расписаний.
func (t *Trigger) Entries() int {
	return len(t.cron.Entries())
}
