package history

import (
	"context"

	"github.com/google/uuid"
	"github.com/shaiso/Cascade/internal/domain"
)

// RunFilter — параметры фильтрации runs.
type RunFilter struct {
	Pipeline string
	Status   domain.RunStatus
	Limit    int
	Offset   int
}

// Store — хранилище истории запусков.
//
// Конвейеры выполняются в памяти; Store фиксирует только итог каждого
// запуска для аудита и отладки.
type Store interface {
	// CreateRun сохраняет новый run.
	CreateRun(ctx context.Context, run *domain.Run) error

	// UpdateRun обновляет статус и итоговые поля run.
	// Возвращает ErrRunNotFound, если run не существует.
	UpdateRun(ctx context.Context, run *domain.Run) error

	// GetRun возвращает run по ID.
	GetRun(ctx context.Context, id uuid.UUID) (*domain.Run, error)

	// ListRuns возвращает runs с фильтрацией, новые первыми.
	ListRuns(ctx context.Context, filter RunFilter) ([]domain.Run, error)
}
