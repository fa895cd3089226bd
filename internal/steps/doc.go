// Package steps содержит реализации типов шагов для декларативных конвейеров.
//
// # Обзор
//
// Steps — это фабрики действий для конкретных типов шагов. Каждая фабрика:
//   - Валидирует конфигурацию (map[string]any) при сборке
//   - Возвращает готовое domain.Action для вставки в конвейер
//   - Рендерит шаблоны по данным входного результата во время выполнения
//
// # Интерфейс Builder
//
// Все фабрики реализуют интерфейс Builder:
//
//	type Builder interface {
//	    Type() string
//	    Build(config map[string]any) (domain.Action, error)
//	}
//
// Ошибки конфигурации обнаруживаются на этапе Build, до запуска
// конвейера.
//
// # Registry
//
// Registry — потокобезопасный реестр фабрик по типу:
//
//	registry := steps.DefaultRegistry()
//	action, err := registry.Build("http", config)
//
// # Стандартные шаги
//
//   - set — запись значений в контекст результата
//   - delay — задержка с поддержкой cancellation
//   - http — HTTP запрос с шаблонами в url/headers/body
//   - transform — трансформация данных через Go templates
//   - halt — условная остановка конвейера с ошибкой
package steps
