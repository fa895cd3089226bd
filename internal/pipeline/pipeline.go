package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/engine"
	"github.com/shaiso/Cascade/internal/telemetry"
)

// Strategy — стратегия выполнения конвейера.
//
// Выбор стратегии — видимая вызывающему коду конфигурация,
// а не скрытая магия: автоматическая параллелизация по графу
// включается только для конвейеров из именованных шагов.
type Strategy string

const (
	// StrategyAuto — стратегия выбирается при Build: именованные
	// шаги → StrategyDependency, иначе → StrategySequential.
	StrategyAuto Strategy = ""

	// StrategySequential — явный режим: безымянные шаги и явные
	// параллельные блоки выполняются в порядке объявления.
	// Параллелизм есть только там, где объявлен ParallelBlock.
	StrategySequential Strategy = "sequential"

	// StrategyDependency — полный автоматический режим: порядок
	// и параллелизм выводятся из графа зависимостей именованных шагов.
	StrategyDependency Strategy = "dependency"
)

// seqItem — элемент последовательного режима: одиночный шаг
// или явный параллельный блок.
type seqItem struct {
	step  domain.Step
	block []domain.Step
}

// Pipeline — конвейер: накопленная конфигурация шагов и её исполнитель.
//
// Pipeline собирается билдером (New → Step/NamedStep/ParallelBlock →
// Build) и не использует глобального состояния: каждый экземпляр
// владеет своим списком шагов и своим графом зависимостей.
// После Build конвейер не меняется; Run можно вызывать многократно
// и из разных горутин.
type Pipeline struct {
	name     string
	strategy Strategy

	items []seqItem     // последовательный режим
	named []domain.Step // режим графа (порядок объявления)

	graph      *engine.Graph
	levels     [][]string
	middleware []Middleware

	exec     *GroupExecutor
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	fallback bool

	buildOnce sync.Once
	buildErr  error
}

// Option — опция конфигурации Pipeline.
type Option func(*Pipeline)

// WithStrategy явно задаёт стратегию выполнения.
func WithStrategy(s Strategy) Option {
	return func(p *Pipeline) { p.strategy = s }
}

// WithLogger задаёт логгер конвейера.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics задаёт метрики конвейера.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(p *Pipeline) { p.metrics = metrics }
}

// WithSequentialFallback отключает конкурентность внутри групп.
// Семантика слияния не меняется — результаты идентичны.
func WithSequentialFallback() Option {
	return func(p *Pipeline) { p.fallback = true }
}

// New создаёт пустой Pipeline.
func New(name string, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:   name,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = telemetry.WithPipeline(p.logger, name)
	return p
}

// Step добавляет безымянный последовательный шаг.
func (p *Pipeline) Step(action domain.Action) *Pipeline {
	p.items = append(p.items, seqItem{step: domain.Step{Action: action}})
	return p
}

// NamedStep добавляет именованный шаг с зависимостями.
func (p *Pipeline) NamedStep(name string, action domain.Action, deps ...string) *Pipeline {
	p.named = append(p.named, domain.Step{Name: name, Action: action, DependsOn: deps})
	return p
}

// ParallelBlock добавляет явный параллельный блок в последовательный
// поток. Блок выполняется как одноразовая группа через GroupExecutor
// с тем же алгоритмом слияния, что и уровни графа.
func (p *Pipeline) ParallelBlock(actions ...domain.Action) *Pipeline {
	block := make([]domain.Step, 0, len(actions))
	for _, action := range actions {
		block = append(block, domain.Step{Action: action})
	}
	p.items = append(p.items, seqItem{block: block})
	return p
}

// Use добавляет middleware. Применяются при Build ко всем шагам
// в порядке добавления: Use(m1, m2) даёт m1(m2(action)).
func (p *Pipeline) Use(middlewares ...Middleware) *Pipeline {
	p.middleware = append(p.middleware, middlewares...)
	return p
}

// Build завершает конфигурацию: выбирает стратегию, строит и
// валидирует граф зависимостей, применяет middleware.
//
// Все ошибки конфигурации (пустой конвейер, nil-действие, смешение
// именованных и безымянных шагов, неизвестная зависимость, цикл)
// фатальны и возвращаются отсюда синхронно.
//
// Build идемпотентен; Run вызывает его сам при необходимости.
func (p *Pipeline) Build() error {
	p.buildOnce.Do(func() {
		p.buildErr = p.build()
	})
	return p.buildErr
}

func (p *Pipeline) build() error {
	if len(p.items) == 0 && len(p.named) == 0 {
		return ErrNoSteps
	}
	if len(p.items) > 0 && len(p.named) > 0 {
		return ErrMixedSteps
	}

	// Выбор стратегии
	switch p.strategy {
	case StrategyAuto:
		if len(p.named) > 0 {
			p.strategy = StrategyDependency
		} else {
			p.strategy = StrategySequential
		}
	case StrategySequential:
		if len(p.named) > 0 {
			return ErrStrategyMismatch
		}
	case StrategyDependency:
		if len(p.named) == 0 {
			return ErrNoNamedSteps
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, p.strategy)
	}

	// Проверка действий
	for i := range p.items {
		item := &p.items[i]
		if item.block == nil && item.step.Action == nil {
			return fmt.Errorf("step #%d: %w", i, ErrNilAction)
		}
		for j, step := range item.block {
			if step.Action == nil {
				return fmt.Errorf("block #%d step #%d: %w", i, j, ErrNilAction)
			}
		}
	}
	for i := range p.named {
		if p.named[i].Action == nil {
			return fmt.Errorf("step %s: %w", p.named[i].Name, ErrNilAction)
		}
	}

	// Граф зависимостей и уровни параллелизма — один раз
	if p.strategy == StrategyDependency {
		decls := make([]engine.NodeDecl, 0, len(p.named))
		for i := range p.named {
			decls = append(decls, engine.NodeDecl{
				Name:      p.named[i].Name,
				DependsOn: p.named[i].DependsOn,
			})
		}

		graph, err := engine.BuildGraph(decls)
		if err != nil {
			return fmt.Errorf("build dependency graph: %w", err)
		}
		levels, err := graph.LevelOrder()
		if err != nil {
			return fmt.Errorf("compute level order: %w", err)
		}
		p.graph = graph
		p.levels = levels
	}

	// Применяем middleware ко всем действиям
	if len(p.middleware) > 0 {
		chain := ChainMiddleware(p.middleware...)
		for i := range p.items {
			if p.items[i].block != nil {
				for j := range p.items[i].block {
					p.items[i].block[j].Action = chain(p.items[i].block[j].Action)
				}
				continue
			}
			p.items[i].step.Action = chain(p.items[i].step.Action)
		}
		for i := range p.named {
			p.named[i].Action = chain(p.named[i].Action)
		}
	}

	p.exec = NewGroupExecutor(GroupConfig{
		Sequential: p.fallback,
		Logger:     p.logger,
		Metrics:    p.metrics,
	})

	return nil
}

// Run выполняет конвейер над начальным Outcome.
//
// Nil на входе трактуется как пустой Outcome. Остановка потока
// (флаг продолжения false) — штатный исход: возвращается Outcome
// и nil-ошибка. Авария действия прерывает запуск и возвращается
// как ошибка.
func (p *Pipeline) Run(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
	if err := p.Build(); err != nil {
		return nil, err
	}

	if in == nil {
		in = domain.NewOutcome(nil)
	}

	if p.strategy == StrategyDependency {
		return p.runLevels(ctx, in)
	}
	return p.runSequence(ctx, in)
}

// runSequence — последовательный режим: фолдим шаги и явные блоки
// слева направо, останавливаясь сразу после первого Halt.
func (p *Pipeline) runSequence(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
	current := in
	for i := range p.items {
		item := &p.items[i]

		var (
			out *domain.Outcome
			err error
		)
		if item.block != nil {
			out, err = p.exec.RunGroup(ctx, item.block, current)
		} else {
			out, err = p.exec.RunGroup(ctx, []domain.Step{item.step}, current)
		}
		if err != nil {
			return nil, err
		}

		current = out
		if !current.ShouldContinue() {
			p.logger.Debug("pipeline halted", "item", i)
			return current, nil
		}
	}
	return current, nil
}

// runLevels — режим графа: уровни выполняются строго по порядку,
// слитый Outcome уровня становится входом следующего. Остановка
// после уровня не даёт стартовать оставшимся уровням.
func (p *Pipeline) runLevels(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
	index := make(map[string]*domain.Step, len(p.named))
	for i := range p.named {
		index[p.named[i].Name] = &p.named[i]
	}

	current := in
	for i, level := range p.levels {
		group := make([]domain.Step, 0, len(level))
		for _, name := range level {
			group = append(group, *index[name])
		}

		out, err := p.exec.RunGroup(ctx, group, current)
		if err != nil {
			return nil, err
		}

		current = out
		if !current.ShouldContinue() {
			p.logger.Debug("pipeline halted", "level", i, "steps", level)
			return current, nil
		}
	}
	return current, nil
}

// Name возвращает имя конвейера.
func (p *Pipeline) Name() string {
	return p.name
}

// Strategy возвращает выбранную стратегию (после Build — окончательную).
func (p *Pipeline) Strategy() Strategy {
	return p.strategy
}

// Graph возвращает граф зависимостей для интроспекции без запуска.
// Nil для последовательных конвейеров и до Build.
func (p *Pipeline) Graph() *engine.Graph {
	return p.graph
}
