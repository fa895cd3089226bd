// Package domain содержит базовые типы Cascade.
//
// Включает:
//   - outcome.go — Outcome, неизменяемый результат шага, и слияние Outcomes
//   - step.go    — Step и интерфейс Action
//   - run.go     — Run, запись о выполнении конвейера
//   - status.go  — статусы выполнения
//
// Пакет не зависит от других пакетов Cascade и не содержит логики
// планирования — только данные и операции над ними.
package domain
