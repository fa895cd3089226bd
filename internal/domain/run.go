package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — запись об одном выполнении конвейера.
//
// Run создаётся когда:
//   - Пользователь запускает конвейер вручную (через CLI)
//   - Trigger запускает конвейер по расписанию
//
// Run хранит итог запуска (статус, ошибки финального Outcome,
// времена), но не промежуточные Outcomes — они живут только
// в памяти во время выполнения.
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// Pipeline — имя конвейера, который выполнялся.
	Pipeline string `json:"pipeline"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// Inputs — входные параметры, переданные при запуске.
	// Попадают в контекст начального Outcome.
	Inputs map[string]any `json:"inputs,omitempty"`

	// StepErrors — карта ошибок финального Outcome
	// (категория → список сообщений).
	StepErrors map[string][]string `json:"step_errors,omitempty"`

	// StartedAt — время начала выполнения (когда статус стал RUNNING).
	// Nil, если run ещё не начался.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения. Nil, если run ещё выполняется.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст аварии, если run завершился с FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт Run в статусе PENDING.
func NewRun(pipeline string, inputs map[string]any) *Run {
	return &Run{
		ID:        uuid.New(),
		Pipeline:  pipeline,
		Status:    RunStatusPending,
		Inputs:    inputs,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит run в статус SUCCEEDED.
func (r *Run) MarkSucceeded() {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
}

// MarkHalted переводит run в статус HALTED с ошибками финального Outcome.
func (r *Run) MarkHalted(stepErrors map[string][]string) {
	now := time.Now()
	r.Status = RunStatusHalted
	r.StepErrors = stepErrors
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с текстом аварии.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.Error = err
	r.FinishedAt = &now
}
