package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// PipelineSpec — спецификация конвейера (содержимое spec-файла).
//
// Это "программа" для Cascade — описание шагов, их конфигураций
// и зависимостей. Формат файла — JSON или YAML.
type PipelineSpec struct {
	// Version — версия формата спецификации (для обратной совместимости).
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Name — имя конвейера.
	Name string `json:"name" yaml:"name"`

	// Description — описание назначения конвейера.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Inputs — входные параметры по умолчанию.
	// Попадают в контекст начального Outcome и могут быть
	// переопределены при запуске.
	Inputs map[string]any `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Schedule — cron-выражение для периодического запуска.
	// Пустое — конвейер запускается только вручную.
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`

	// Steps — список шагов для выполнения.
	Steps []SpecStep `json:"steps" yaml:"steps"`
}

// SpecStep — объявление одного шага в спецификации.
type SpecStep struct {
	// ID — уникальный идентификатор шага.
	ID string `json:"id" yaml:"id"`

	// Type — тип шага из реестра (set, delay, http, transform, halt).
	Type string `json:"type" yaml:"type"`

	// Config — конфигурация шага, интерпретируется реализацией типа.
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`

	// DependsOn — ID шагов, которые должны завершиться до этого.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// ParseSpec разбирает спецификацию из JSON или YAML.
//
// Формат определяется по первому значащему байту: '{' — JSON,
// иначе YAML. Разобранная спецификация валидируется.
func ParseSpec(data []byte) (*PipelineSpec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrSpecSyntax)
	}

	var spec PipelineSpec
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &spec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpecSyntax, err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &spec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpecSyntax, err)
		}
	}

	if err := ValidateSpec(&spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// ValidateSpec выполняет структурную валидацию спецификации.
//
// Проверяет:
//   - наличие шагов
//   - непустые ID и типы
//   - уникальность ID
//
// Корректность зависимостей (неизвестные узлы, циклы) проверяет
// BuildGraph при построении графа; существование типа шага —
// реестр при сборке конвейера.
func ValidateSpec(spec *PipelineSpec) error {
	if spec == nil || len(spec.Steps) == 0 {
		return ErrEmptySteps
	}

	stepIDs := make(map[string]bool, len(spec.Steps))
	for i := range spec.Steps {
		step := &spec.Steps[i]

		if step.ID == "" {
			return NewValidationError("", "id", "step has empty ID", ErrEmptyStepID)
		}
		if stepIDs[step.ID] {
			return NewValidationError(step.ID, "id",
				fmt.Sprintf("duplicate step ID: %s", step.ID), ErrDuplicateStepID)
		}
		stepIDs[step.ID] = true

		if step.Type == "" {
			return NewValidationError(step.ID, "type", "step has empty type", ErrEmptyStepType)
		}
	}

	return nil
}

// Decls переводит шаги спецификации в объявления узлов графа.
func (s *PipelineSpec) Decls() []NodeDecl {
	decls := make([]NodeDecl, 0, len(s.Steps))
	for i := range s.Steps {
		decls = append(decls, NodeDecl{
			Name:      s.Steps[i].ID,
			DependsOn: s.Steps[i].DependsOn,
		})
	}
	return decls
}
