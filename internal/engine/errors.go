package engine

import "errors"

// Ошибки построения графа зависимостей.
var (
	// ErrEmptyNodeName — узел с пустым именем.
	ErrEmptyNodeName = errors.New("node has empty name")

	// ErrDuplicateNode — несколько узлов с одинаковым именем.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownDependency — узел зависит от необъявленного узла.
	ErrUnknownDependency = errors.New("node depends on unknown node")

	// ErrSelfDependency — узел зависит от самого себя.
	ErrSelfDependency = errors.New("node depends on itself")

	// ErrCyclicDependency — обнаружен цикл в зависимостях.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrUnknownNode — обращение к несуществующему узлу (Subgraph).
	ErrUnknownNode = errors.New("unknown node")
)

// Ошибки валидации PipelineSpec.
var (
	// ErrEmptySteps — спецификация не содержит шагов.
	ErrEmptySteps = errors.New("pipeline spec has no steps")

	// ErrEmptyStepID — шаг не имеет ID.
	ErrEmptyStepID = errors.New("step has empty ID")

	// ErrDuplicateStepID — несколько шагов с одинаковым ID.
	ErrDuplicateStepID = errors.New("duplicate step ID")

	// ErrEmptyStepType — шаг не имеет типа.
	ErrEmptyStepType = errors.New("step has empty type")

	// ErrSpecSyntax — спецификацию не удалось разобрать.
	ErrSpecSyntax = errors.New("pipeline spec syntax error")
)

// Ошибки рендеринга шаблонов.
var (
	// ErrTemplateRender — ошибка рендеринга шаблона.
	ErrTemplateRender = errors.New("template render failed")

	// ErrTemplateParse — ошибка парсинга шаблона.
	ErrTemplateParse = errors.New("template parse failed")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	Node    string // имя узла или ID шага, где произошла ошибка
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.Node != "" {
		return "node " + e.Node + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(node, field, message string, err error) *ValidationError {
	return &ValidationError{
		Node:    node,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
