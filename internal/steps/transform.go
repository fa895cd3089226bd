package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/engine"
)

const (
	// StepTypeTransform — тип шага трансформации.
	StepTypeTransform = "transform"

	// Ключи конфигурации transform.
	configMappings  = "mappings"
	configValueTmpl = "value_template"
)

// TransformStep — шаг трансформации данных.
//
// Применяет Go templates к данным входного результата и записывает
// результаты рендеринга в контекст.
//
// Конфигурация:
//
//	{
//	    "mappings": {
//	        "total": "{{ len .Context.items }}",
//	        "greeting": "hello {{ .Context.name }}"
//	    },
//	    "value_template": "{{ .Value }}"  // опционально: новая полезная нагрузка
//	}
//
// Отрендеренные значения парсятся как JSON; если парсинг не удаётся,
// значение остаётся строкой.
type TransformStep struct{}

// NewTransformStep создаёт новый TransformStep.
func NewTransformStep() *TransformStep {
	return &TransformStep{}
}

// Type возвращает тип шага.
func (s *TransformStep) Type() string {
	return StepTypeTransform
}

// Build создаёт действие из конфигурации.
func (s *TransformStep) Build(config map[string]any) (domain.Action, error) {
	mappings := s.parseMappings(config)
	valueTmpl := GetConfigString(config, configValueTmpl)

	if len(mappings) == 0 && valueTmpl == "" {
		return nil, fmt.Errorf("%w: %s: mappings or value_template is required", ErrInvalidConfig, StepTypeTransform)
	}

	// Ключи рендерятся в детерминированном порядке, чтобы ошибка
	// всегда указывала на один и тот же mapping.
	keys := sortedKeys(mappings)

	return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
		default:
		}

		out := in
		for _, key := range keys {
			rendered, err := engine.RenderTemplate(mappings[key], in)
			if err != nil {
				return nil, fmt.Errorf("transform %s: %w", key, err)
			}
			out = out.WithContext(key, parseValue(rendered))
		}

		if valueTmpl != "" {
			rendered, err := engine.RenderTemplate(valueTmpl, in)
			if err != nil {
				return nil, fmt.Errorf("transform value: %w", err)
			}
			out = out.ContinueWith(parseValue(rendered))
		}

		return out, nil
	}), nil
}

// parseMappings извлекает mappings из конфигурации.
func (s *TransformStep) parseMappings(config map[string]any) map[string]string {
	raw := config[configMappings]
	if raw == nil {
		return nil
	}

	switch m := raw.(type) {
	case map[string]string:
		return m

	case map[string]any:
		result := make(map[string]string, len(m))
		for key, val := range m {
			if str, ok := val.(string); ok {
				result[key] = str
			}
		}
		return result

	default:
		return nil
	}
}

// parseValue пытается распарсить строку как JSON.
// Если не получается — возвращает строку как есть.
func parseValue(value string) any {
	// Пробуем как JSON object
	var obj map[string]any
	if err := json.Unmarshal([]byte(value), &obj); err == nil {
		return obj
	}

	// Пробуем как JSON array
	var arr []any
	if err := json.Unmarshal([]byte(value), &arr); err == nil {
		return arr
	}

	// Пробуем как JSON number
	var num json.Number
	if err := json.Unmarshal([]byte(value), &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i
		}
		if f, err := num.Float64(); err == nil {
			return f
		}
	}

	// Пробуем как JSON bool
	if value == "true" {
		return true
	}
	if value == "false" {
		return false
	}

	// Возвращаем как строку
	return value
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
