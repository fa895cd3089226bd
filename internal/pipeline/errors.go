package pipeline

import "errors"

// Ошибки конфигурации конвейера.
var (
	// ErrNoSteps — конвейер не содержит ни одного шага.
	ErrNoSteps = errors.New("pipeline has no steps")

	// ErrNilAction — шаг объявлен без действия.
	ErrNilAction = errors.New("step has nil action")

	// ErrMixedSteps — именованные и безымянные шаги в одном конвейере.
	// Именованные шаги выполняются по графу зависимостей, безымянные —
	// последовательно; смешивать их в одном Pipeline нельзя.
	ErrMixedSteps = errors.New("pipeline mixes named and unnamed steps")

	// ErrNoNamedSteps — выбран режим графа зависимостей, но именованных
	// шагов нет.
	ErrNoNamedSteps = errors.New("dependency strategy requires named steps")

	// ErrUnknownStrategy — неизвестная стратегия выполнения.
	ErrUnknownStrategy = errors.New("unknown execution strategy")

	// ErrStrategyMismatch — последовательная стратегия выбрана для
	// конвейера с именованными шагами: их зависимости были бы молча
	// проигнорированы.
	ErrStrategyMismatch = errors.New("sequential strategy cannot run named steps")
)

// Ошибки выполнения.
var (
	// ErrActionPanic — паника внутри действия шага, перехваченная
	// middleware Recovery.
	ErrActionPanic = errors.New("action panicked")
)
