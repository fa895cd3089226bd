package domain

import "context"

// Action — способность выполнить один шаг конвейера.
//
// Единственная операция: Outcome на входе, Outcome на выходе.
// Ошибка — это авария выполнения (аналог исключения): она прерывает
// весь запуск и никогда не маскируется ядром. Обычная остановка
// потока выражается не ошибкой, а флагом продолжения Outcome.
//
// Action реализуют как функции (через ActionFunc), так и любые
// объекты с методом Execute — ядру безразлично.
type Action interface {
	Execute(ctx context.Context, in *Outcome) (*Outcome, error)
}

// ActionFunc — адаптер, позволяющий использовать функцию как Action.
type ActionFunc func(ctx context.Context, in *Outcome) (*Outcome, error)

// Execute реализует интерфейс Action.
func (f ActionFunc) Execute(ctx context.Context, in *Outcome) (*Outcome, error) {
	return f(ctx, in)
}

// Step — единица работы конвейера.
//
// Step — шаблон, а не состояние запуска: один и тот же Step
// пропускает через себя множество Outcomes за время жизни конвейера.
// После объявления Step не меняется.
type Step struct {
	// Name — уникальное в пределах конвейера имя шага.
	// Пустое для безымянных последовательных шагов — их
	// идентичность определяется позицией в списке.
	Name string

	// Action — действие шага.
	Action Action

	// DependsOn — имена шагов, которые должны завершиться
	// (и не остановить поток) до запуска этого шага.
	DependsOn []string
}
