package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/engine"
)

const (
	// StepTypeHalt — тип шага остановки.
	StepTypeHalt = "halt"

	// Ключи конфигурации halt.
	configCategory = "category"
	configMessage  = "message"
	configWhen     = "when"
)

// HaltStep — шаг остановки конвейера.
//
// Регистрирует ошибку и снимает флаг продолжения, после чего
// последующие шаги не выполняются.
//
// Конфигурация:
//
//	{
//	    "category": "validation",
//	    "message": "missing field {{ .Context.field }}",
//	    "when": "{{ eq .Context.mode \"strict\" }}"  // опционально
//	}
//
// Если задан when, шаг останавливает конвейер только когда шаблон
// рендерится в "true"; иначе возвращает вход без изменений.
type HaltStep struct{}

// NewHaltStep создаёт новый HaltStep.
func NewHaltStep() *HaltStep {
	return &HaltStep{}
}

// Type возвращает тип шага.
func (s *HaltStep) Type() string {
	return StepTypeHalt
}

// Build создаёт действие из конфигурации.
func (s *HaltStep) Build(config map[string]any) (domain.Action, error) {
	category := GetConfigString(config, configCategory)
	message := GetConfigString(config, configMessage)
	when := GetConfigString(config, configWhen)

	if category == "" {
		return nil, fmt.Errorf("%w: %s: category is required", ErrInvalidConfig, StepTypeHalt)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: %s: message is required", ErrInvalidConfig, StepTypeHalt)
	}

	return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		if when != "" {
			rendered, err := engine.RenderTemplate(when, in)
			if err != nil {
				return nil, fmt.Errorf("halt condition: %w", err)
			}
			if rendered != "true" {
				return in, nil
			}
		}

		rendered, err := engine.RenderTemplate(message, in)
		if err != nil {
			return nil, fmt.Errorf("halt message: %w", err)
		}

		return in.WithError(category, rendered).Halt(), nil
	}), nil
}
