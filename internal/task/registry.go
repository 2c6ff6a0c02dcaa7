package task

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered — реализация для пары (mod, method) не найдена.
var ErrNotRegistered = errors.New("task not registered")

// Ref — идентификатор реализации задачи: литеральная пара
// (mod, method) из документа flow.
type Ref struct {
	Mod    string
	Method string
}

// String возвращает каноничную запись пары.
func (r Ref) String() string {
	return r.Mod + "." + r.Method
}

// Registry — реестр реализаций задач.
//
// Чистая таблица поиска: наполняется при старте процесса
// (deployment-time каталог), дальше только читается. Потокобезопасен.
type Registry struct {
	mu    sync.RWMutex
	tasks map[Ref]Task
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[Ref]Task),
	}
}

// DefaultRegistry создаёт реестр со всеми встроенными задачами.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterKt(r)
	RegisterHTTP(r)
	RegisterDelay(r)
	return r
}

// Register регистрирует реализацию под парой (mod, method).
// Повторная регистрация той же пары перезаписывает реализацию.
func (r *Registry) Register(mod, method string, t Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[Ref{Mod: mod, Method: method}] = t
}

// Resolve возвращает реализацию по паре (mod, method).
// Возвращает ErrNotRegistered, если пара не зарегистрирована.
func (r *Registry) Resolve(mod, method string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tasks[Ref{Mod: mod, Method: method}]
	if !exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotRegistered, mod, method)
	}

	return t, nil
}

// Has проверяет, зарегистрирована ли пара.
func (r *Registry) Has(mod, method string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.tasks[Ref{Mod: mod, Method: method}]
	return exists
}

// Refs возвращает отсортированный список зарегистрированных пар.
func (r *Registry) Refs() []Ref {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]Ref, 0, len(r.tasks))
	for ref := range r.tasks {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Mod != refs[j].Mod {
			return refs[i].Mod < refs[j].Mod
		}
		return refs[i].Method < refs[j].Method
	})
	return refs
}

// Count возвращает количество зарегистрированных реализаций.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
