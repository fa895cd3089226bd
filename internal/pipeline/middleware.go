package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/telemetry"
)

// Middleware — функция-обёртка для Action.
//
// Обёрнутое действие обязано сохранять контракт Action и вызывать
// исходное действие ровно один раз на каждое своё выполнение.
// Middleware применяются к каждому шагу конвейера при Build.
type Middleware func(domain.Action) domain.Action

// ChainMiddleware применяет middleware в порядке слева направо.
// ChainMiddleware(m1, m2)(action) = m1(m2(action))
func ChainMiddleware(middlewares ...Middleware) Middleware {
	return func(next domain.Action) domain.Action {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Logging логирует выполнение каждого шага: длительность, флаг
// продолжения, наличие ошибок в Outcome.
func Logging(logger *slog.Logger) Middleware {
	return func(next domain.Action) domain.Action {
		return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			start := time.Now()

			out, err := next.Execute(ctx, in)
			if err != nil {
				logger.Error("step fault",
					"duration", time.Since(start),
					"error", err,
				)
				return nil, err
			}

			logger.Debug("step executed",
				"duration", time.Since(start),
				"continue", out.ShouldContinue(),
				"has_errors", out.HasErrors(),
			)

			return out, nil
		})
	}
}

// Timing записывает длительность каждого шага в метрики.
func Timing(metrics *telemetry.Metrics) Middleware {
	return func(next domain.Action) domain.Action {
		return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
			start := time.Now()
			out, err := next.Execute(ctx, in)
			metrics.ObserveStep(time.Since(start).Seconds())
			return out, err
		})
	}
}

// Recovery превращает панику действия в обычную аварию выполнения.
//
// Ядро само паники не перехватывает — это осознанный выбор
// подключающего middleware вызывающего кода.
func Recovery(logger *slog.Logger) Middleware {
	return func(next domain.Action) domain.Action {
		return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (out *domain.Outcome, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						"panic", r,
						"stack", string(debug.Stack()),
					)
					out = nil
					err = fmt.Errorf("%w: %v", ErrActionPanic, r)
				}
			}()

			return next.Execute(ctx, in)
		})
	}
}
