package steps

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shaiso/Cascade/internal/domain"
)

// Registry — реестр типов шагов.
//
// Позволяет регистрировать и получать фабрики действий по типу.
// Потокобезопасен.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// DefaultRegistry создаёт реестр со всеми стандартными шагами.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Регистрируем все стандартные шаги
	r.Register(NewSetStep())
	r.Register(NewDelayStep())
	r.Register(NewHTTPStep())
	r.Register(NewTransformStep())
	r.Register(NewHaltStep())

	return r
}

// Register регистрирует фабрику в реестре.
// Если фабрика с таким типом уже существует, она будет перезаписана.
func (r *Registry) Register(b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[b.Type()] = b
}

// Get возвращает фабрику по типу.
// Возвращает ErrStepNotFound, если тип не зарегистрирован.
func (r *Registry) Get(stepType string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.builders[stepType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, stepType)
	}

	return b, nil
}

// Build создаёт действие указанного типа из конфигурации.
func (r *Registry) Build(stepType string, config map[string]any) (domain.Action, error) {
	b, err := r.Get(stepType)
	if err != nil {
		return nil, err
	}
	return b.Build(config)
}

// Has проверяет, зарегистрирован ли тип шага.
func (r *Registry) Has(stepType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.builders[stepType]
	return exists
}

// Types возвращает список всех зарегистрированных типов шагов.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Count возвращает количество зарегистрированных типов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.builders)
}

// Unregister удаляет тип шага из реестра.
func (r *Registry) Unregister(stepType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.builders, stepType)
}
