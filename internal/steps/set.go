package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Cascade/internal/domain"
)

const (
	// StepTypeSet — тип шага записи в контекст.
	StepTypeSet = "set"

	// Ключи конфигурации set.
	configContext = "context"
	configValue   = "value"
)

// SetStep — шаг записи данных.
//
// Записывает статические значения в контекст результата и/или
// заменяет полезную нагрузку.
//
// Конфигурация:
//
//	{
//	    "context": {           // пары ключ-значение для контекста
//	        "region": "eu",
//	        "retries": 3
//	    },
//	    "value": "payload"     // опционально: новая полезная нагрузка
//	}
type SetStep struct{}

// NewSetStep создаёт новый SetStep.
func NewSetStep() *SetStep {
	return &SetStep{}
}

// Type возвращает тип шага.
func (s *SetStep) Type() string {
	return StepTypeSet
}

// Build создаёт действие из конфигурации.
func (s *SetStep) Build(config map[string]any) (domain.Action, error) {
	entries := GetConfigMap(config, configContext)
	value, hasValue := config[configValue]

	if len(entries) == 0 && !hasValue {
		return nil, fmt.Errorf("%w: %s: context or value is required", ErrInvalidConfig, StepTypeSet)
	}

	return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		out := in
		for key, val := range entries {
			out = out.WithContext(key, val)
		}
		if hasValue {
			out = out.ContinueWith(value)
		}
		return out, nil
	}), nil
}
