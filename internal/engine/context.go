package engine

import (
	"time"
)

// ReservedPrefix — префикс зарезервированного пространства имён
// контекста. Ключи с этим префиксом принадлежат движку; задача не
// может ни носить такое имя, ни записать под него результат.
const ReservedPrefix = "_"

// runtimeSlot — ключ служебных метаданных запуска.
const runtimeSlot = "_runtime"

// Context — контекст одного запуска flow.
//
// Отображение имя задачи → результат задачи, создаётся пустым в начале
// запуска. Пишет в него только движок, строго между вызовами задач,
// поэтому синхронизация не нужна. Каждое имя записывается ровно один
// раз: результат завершённой задачи никогда не перезаписывается.
type Context struct {
	results map[string]map[string]any
	order   []string // порядок записи, без служебных слотов
}

// NewContext создаёт пустой контекст.
func NewContext() *Context {
	return &Context{
		results: make(map[string]map[string]any),
	}
}

// Set сохраняет результат задачи под её именем.
//
// Возвращает ErrSlotWritten, если имя уже занято, и ErrReservedSlot,
// если имя начинается с зарезервированного префикса.
func (c *Context) Set(name string, result map[string]any) error {
	if hasReservedPrefix(name) {
		return &ConfigError{Task: name, Message: "context slot uses reserved prefix " + ReservedPrefix, Err: ErrReservedSlot}
	}
	if _, exists := c.results[name]; exists {
		return &ConfigError{Task: name, Message: "context slot already written: " + name, Err: ErrSlotWritten}
	}
	c.results[name] = result
	c.order = append(c.order, name)
	return nil
}

// Get возвращает полный результат задачи.
//
// Возвращается защитная копия верхнего уровня: результат уходит в
// разрешённые параметры следующей задачи, и та не должна иметь
// возможности изменить сохранённый результат через него.
// Возвращает ReferenceError, если задача ещё не выполнялась.
func (c *Context) Get(name string) (map[string]any, error) {
	result, ok := c.results[name]
	if !ok {
		return nil, &ReferenceError{Step: name, Err: ErrUnknownStep}
	}
	return copyResult(result), nil
}

// GetKey возвращает значение по ключу внутри результата задачи.
// Возвращает ReferenceError, если задача или ключ отсутствуют.
func (c *Context) GetKey(name, key string) (any, error) {
	result, ok := c.results[name]
	if !ok {
		return nil, &ReferenceError{Step: name, Err: ErrUnknownStep}
	}
	value, ok := result[key]
	if !ok {
		return nil, &ReferenceError{Step: name, Key: key, Err: ErrUnknownStepKey}
	}
	return value, nil
}

// Has проверяет, есть ли у задачи сохранённый результат.
func (c *Context) Has(name string) bool {
	_, ok := c.results[name]
	return ok
}

// Names возвращает имена задач в порядке записи результатов.
// Служебные слоты не включаются.
func (c *Context) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Len возвращает количество сохранённых результатов задач.
func (c *Context) Len() int {
	return len(c.order)
}

// InitRuntime однократно заполняет служебное пространство имён
// метаданными запуска. Вызывается движком до первой задачи —
// единственное исключение из правила write-once.
func (c *Context) InitRuntime(meta map[string]any) {
	runtime := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		runtime[k] = v
	}
	if _, ok := runtime["started_at"]; !ok {
		runtime["started_at"] = time.Now()
	}
	c.results[runtimeSlot] = runtime
}

// Runtime возвращает служебные метаданные запуска.
// Возвращает nil, если InitRuntime не вызывался.
func (c *Context) Runtime() map[string]any {
	return c.results[runtimeSlot]
}

// Snapshot возвращает защитную копию результатов задач.
//
// Копия отдаётся реализациям задач вместо живого контекста: задача не
// должна иметь возможности изменить сохранённый результат другой
// задачи. Копируется верхний уровень каждого результата; вложенные
// значения не клонируются.
//
// Служебный слот _runtime в снимок не входит: метаданные запуска
// доступны задачам только через @-ссылки в параметрах.
func (c *Context) Snapshot() map[string]map[string]any {
	snap := make(map[string]map[string]any, len(c.order))
	for _, name := range c.order {
		snap[name] = copyResult(c.results[name])
	}
	return snap
}

// copyResult копирует верхний уровень результата задачи.
func copyResult(result map[string]any) map[string]any {
	cp := make(map[string]any, len(result))
	for k, v := range result {
		cp[k] = v
	}
	return cp
}

func hasReservedPrefix(name string) bool {
	return len(name) > 0 && name[:1] == ReservedPrefix
}
