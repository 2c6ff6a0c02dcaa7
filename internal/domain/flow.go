package domain

import (
	"time"
)

// Flow — запись flow в хранилище.
//
// Flow — это именованный "рецепт": JSON-документ с упорядоченным
// списком задач. Запись идентифицируется уникальным именем, а не
// суррогатным ID — имя и есть ключ, которым оперируют CLI и API.
type Flow struct {
	// FlowName — уникальное имя flow (например, "sync-orders").
	FlowName string `json:"flow_name"`

	// FlowJSON — документ flow в формате JSON (см. FlowDoc).
	// Хранится как текст и парсится при каждой загрузке.
	FlowJSON string `json:"flow_json"`

	// Enabled — флаг активности. Выключенный flow не виден загрузчику
	// и не запускается ни вручную, ни по расписанию.
	Enabled bool `json:"enabled"`

	// Deleted — флаг мягкого удаления. Удалённый flow невидим для
	// загрузки, но запись сохраняется ради истории.
	Deleted bool `json:"deleted"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения.
	UpdatedAt time.Time `json:"updated_at"`
}

// Runnable возвращает true, если flow можно загружать и выполнять.
func (f *Flow) Runnable() bool {
	return f.Enabled && !f.Deleted
}

// FlowDoc — распарсенный документ flow (содержимое Flow.FlowJSON).
//
// Порядок задач в Tasks — это порядок выполнения; он значим и
// является единственным механизмом зависимостей между задачами.
type FlowDoc struct {
	// Tasks — упорядоченный список задач.
	Tasks []TaskSpec `json:"tasks"`
}

// TaskSpec — описание одной задачи внутри flow.
type TaskSpec struct {
	// Name — имя задачи, уникальное в рамках flow.
	// Под этим именем результат задачи попадает в контекст запуска.
	Name string `json:"name"`

	// Mod — модуль реализации задачи (например, "common.Kt").
	Mod string `json:"mod"`

	// Method — метод модуля (например, "prt").
	// Пара (Mod, Method) — ключ поиска реализации в реестре.
	Method string `json:"method"`

	// Params — сырые параметры задачи. Строковые значения могут быть
	// ссылками вида "@step" / "@step.key" или экранированными
	// литералами "@@...". Разрешаются перед каждым вызовом.
	Params map[string]any `json:"params,omitempty"`
}
