package domain

// RunStatus — статус выполнения run.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ HALTED  (конвейер остановлен шагом)
//	                  ↘ FAILED  (авария выполнения)
type RunStatus string

const (
	// RunStatusPending — run создан, но ещё не начал выполняться.
	RunStatusPending RunStatus = "PENDING"

	// RunStatusRunning — run в процессе выполнения.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSucceeded — конвейер дошёл до конца.
	RunStatusSucceeded RunStatus = "SUCCEEDED"

	// RunStatusHalted — один из шагов остановил поток (флаг продолжения
	// false). Это штатная остановка, а не авария.
	RunStatusHalted RunStatus = "HALTED"

	// RunStatusFailed — действие шага вернуло ошибку.
	RunStatusFailed RunStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusHalted, RunStatusFailed:
		return true
	default:
		return false
	}
}
