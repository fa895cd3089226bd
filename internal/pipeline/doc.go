// Package pipeline содержит исполнитель конвейеров.
//
// Включает:
//   - pipeline.go   — Pipeline: накопление конфигурации и выполнение
//     (последовательный режим и режим графа зависимостей)
//   - group.go      — GroupExecutor: параллельное выполнение группы
//     независимых шагов с барьерной синхронизацией и слиянием
//   - middleware.go — обёртки над Action для сквозных задач
//
// Модель параллелизма: конкурентность используется только внутри
// одного уровня графа; уровни выполняются строго последовательно.
// Это цепочка барьеров, а не свободный task graph. Остановка потока
// (Halt) не отменяет уже запущенных соседей по группе — она лишь
// не даёт стартовать следующему уровню.
package pipeline
