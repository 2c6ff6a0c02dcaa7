package task

import (
	"context"
)

// Task — интерфейс реализации задачи.
//
// Каждая реализация регистрируется в Registry под парой (mod, method)
// и вызывается движком строго последовательно. Реализация может
// блокироваться (сеть, БД); движок не навязывает таймаутов — задача
// сама решает, уважать ли дедлайны через ctx.
type Task interface {
	// Execute выполняет задачу и возвращает её результат — плоское
	// отображение строковых ключей в значения. Результат сохраняется
	// в контексте запуска под именем задачи дословно.
	Execute(ctx context.Context, req *Request) (map[string]any, error)
}

// Request — входные данные для выполнения задачи.
type Request struct {
	// TaskName — имя задачи в рамках flow.
	TaskName string

	// Params — разрешённые параметры задачи: все ссылки уже
	// подставлены значениями из контекста.
	Params map[string]any

	// Context — снимок результатов завершённых задач по их именам.
	// Это защитная копия: изменения не видны другим задачам.
	// Служебных слотов (префикс "_") в снимке нет: метаданные запуска
	// доступны только через @-ссылки в параметрах.
	Context map[string]map[string]any
}

// NewRequest создаёт новый Request.
func NewRequest(taskName string, params map[string]any, snapshot map[string]map[string]any) *Request {
	if params == nil {
		params = make(map[string]any)
	}
	if snapshot == nil {
		snapshot = make(map[string]map[string]any)
	}
	return &Request{
		TaskName: taskName,
		Params:   params,
		Context:  snapshot,
	}
}

// Func — адаптер, позволяющий использовать функцию как Task.
type Func func(ctx context.Context, req *Request) (map[string]any, error)

// Execute реализует интерфейс Task.
func (f Func) Execute(ctx context.Context, req *Request) (map[string]any, error) {
	return f(ctx, req)
}

// GetParamString извлекает строковое значение параметра.
func GetParamString(params map[string]any, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// GetParamFloat извлекает числовое значение параметра.
func GetParamFloat(params map[string]any, key string, defaultVal float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return defaultVal
}
