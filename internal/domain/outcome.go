package domain

import "maps"

// Outcome — неизменяемый результат прохождения шага конвейера.
//
// Каждый шаг получает Outcome на вход и возвращает новый Outcome.
// Все операции-модификаторы возвращают копию — исходный Outcome
// никогда не меняется, поэтому один и тот же Outcome безопасно
// читать из нескольких горутин одновременно.
//
// Содержит:
//   - value   — полезная нагрузка (ядро её не интерпретирует)
//   - context — накопленные метаданные (ключ → значение)
//   - errors  — накопленные ошибки (категория → список сообщений)
//   - proceed — флаг продолжения: false означает остановку конвейера
type Outcome struct {
	value   any
	context map[string]any
	errors  map[string][]string
	proceed bool
}

// NewOutcome создаёт Outcome с заданным значением.
// Флаг продолжения по умолчанию true.
func NewOutcome(value any) *Outcome {
	return &Outcome{
		value:   value,
		context: make(map[string]any),
		errors:  make(map[string][]string),
		proceed: true,
	}
}

// clone возвращает глубокую копию Outcome.
// Списки сообщений копируются поэлементно, чтобы два Outcome
// не разделяли изменяемое состояние.
func (o *Outcome) clone() *Outcome {
	ctx := make(map[string]any, len(o.context))
	maps.Copy(ctx, o.context)

	errs := make(map[string][]string, len(o.errors))
	for key, msgs := range o.errors {
		copied := make([]string, len(msgs))
		copy(copied, msgs)
		errs[key] = copied
	}

	return &Outcome{
		value:   o.value,
		context: ctx,
		errors:  errs,
		proceed: o.proceed,
	}
}

// WithContext возвращает новый Outcome с установленным ключом контекста.
// Существующий ключ перезаписывается.
func (o *Outcome) WithContext(key string, value any) *Outcome {
	next := o.clone()
	next.context[key] = value
	return next
}

// WithError возвращает новый Outcome с сообщением, добавленным
// в конец списка указанной категории. Категория создаётся при
// первом обращении. Флаг продолжения не меняется — остановка
// всегда выражается явным вызовом Halt.
func (o *Outcome) WithError(key, message string) *Outcome {
	next := o.clone()
	next.errors[key] = append(next.errors[key], message)
	return next
}

// ContinueWith возвращает новый Outcome с заменённым значением
// и флагом продолжения, принудительно установленным в true.
//
// Это намеренное поведение: вызов ContinueWith после Halt снимает
// остановку. Остановка не "липкая" — если шаг после остановки
// решает продолжить, он обязан заново остановить поток сам.
func (o *Outcome) ContinueWith(value any) *Outcome {
	next := o.clone()
	next.value = value
	next.proceed = true
	return next
}

// Halt возвращает новый Outcome с флагом продолжения false.
// Значение сохраняется.
func (o *Outcome) Halt() *Outcome {
	next := o.clone()
	next.proceed = false
	return next
}

// HaltWith возвращает новый Outcome с флагом продолжения false
// и заменённым значением.
func (o *Outcome) HaltWith(value any) *Outcome {
	next := o.clone()
	next.value = value
	next.proceed = false
	return next
}

// ShouldContinue возвращает флаг продолжения.
func (o *Outcome) ShouldContinue() bool {
	return o.proceed
}

// Value возвращает значение Outcome.
func (o *Outcome) Value() any {
	return o.value
}

// Context возвращает копию контекста.
func (o *Outcome) Context() map[string]any {
	ctx := make(map[string]any, len(o.context))
	maps.Copy(ctx, o.context)
	return ctx
}

// ContextValue возвращает значение ключа контекста.
func (o *Outcome) ContextValue(key string) (any, bool) {
	v, ok := o.context[key]
	return v, ok
}

// Errors возвращает копию карты ошибок.
func (o *Outcome) Errors() map[string][]string {
	errs := make(map[string][]string, len(o.errors))
	for key, msgs := range o.errors {
		copied := make([]string, len(msgs))
		copy(copied, msgs)
		errs[key] = copied
	}
	return errs
}

// ErrorsFor возвращает копию списка сообщений категории.
// Для неизвестной категории возвращает nil.
func (o *Outcome) ErrorsFor(key string) []string {
	msgs, ok := o.errors[key]
	if !ok {
		return nil
	}
	copied := make([]string, len(msgs))
	copy(copied, msgs)
	return copied
}

// HasErrors возвращает true, если накоплена хотя бы одна ошибка.
func (o *Outcome) HasErrors() bool {
	return len(o.errors) > 0
}

// MergeOutcomes сливает результаты группы параллельных шагов
// в один Outcome. Порядок outs — порядок объявления шагов,
// а не порядок их фактического завершения, поэтому результат
// детерминирован при любом расписании горутин.
//
// Правила слияния:
//   - value   — значение последнего Outcome с флагом продолжения true;
//     если таких нет — значение последнего Outcome вообще
//   - context — объединение; поздние шаги перезаписывают ключи ранних
//   - errors  — объединение; внутри категории сообщения конкатенируются
//     в порядке объявления шагов
//   - proceed — false, если остановился хотя бы один участник
//
// Для пустого списка возвращает пустой Outcome.
func MergeOutcomes(outs []*Outcome) *Outcome {
	if len(outs) == 0 {
		return NewOutcome(nil)
	}

	merged := &Outcome{
		context: make(map[string]any),
		errors:  make(map[string][]string),
		proceed: true,
	}

	lastContinuing := -1
	for i, out := range outs {
		maps.Copy(merged.context, out.context)

		for key, msgs := range out.errors {
			merged.errors[key] = append(merged.errors[key], msgs...)
		}

		if out.proceed {
			lastContinuing = i
		} else {
			merged.proceed = false
		}
	}

	if lastContinuing >= 0 {
		merged.value = outs[lastContinuing].value
	} else {
		merged.value = outs[len(outs)-1].value
	}

	return merged
}
