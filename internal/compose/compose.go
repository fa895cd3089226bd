package compose

import (
	"fmt"

	"github.com/shaiso/Cascade/internal/engine"
	"github.com/shaiso/Cascade/internal/pipeline"
	"github.com/shaiso/Cascade/internal/steps"
)

// Compose собирает исполняемый конвейер из декларативного описания.
//
// Каждый шаг описания превращается в действие через реестр типов.
// Шаги всегда получают имена, поэтому составленный конвейер работает
// в режиме зависимостей: шаги без depends_on выполняются параллельно
// на нулевом уровне.
func Compose(spec *engine.PipelineSpec, registry *steps.Registry, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	if err := engine.ValidateSpec(spec); err != nil {
		return nil, err
	}

	options := append([]pipeline.Option{
		pipeline.WithStrategy(pipeline.StrategyDependency),
	}, opts...)

	p := pipeline.New(spec.Name, options...)

	for _, step := range spec.Steps {
		action, err := registry.Build(step.Type, step.Config)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.ID, err)
		}
		p.NamedStep(step.ID, action, step.DependsOn...)
	}

	if err := p.Build(); err != nil {
		return nil, err
	}
	return p, nil
}

// ComposeBytes парсит описание конвейера и собирает его.
func ComposeBytes(data []byte, registry *steps.Registry, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	spec, err := engine.ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return Compose(spec, registry, opts...)
}
