package engine

import "errors"

// Ошибки загрузки flow.
var (
	// ErrFlowNotFound — flow с таким именем не найден, выключен
	// или мягко удалён. Для вызывающего эти случаи неразличимы.
	ErrFlowNotFound = errors.New("flow not found")
)

// Ошибки конфигурации flow. Возникают при загрузке или до первого
// вызова задачи; никогда не ретраятся.
var (
	// ErrMalformedDoc — документ flow не является валидным JSON.
	ErrMalformedDoc = errors.New("malformed flow document")

	// ErrEmptyTasks — документ flow не содержит задач.
	ErrEmptyTasks = errors.New("flow document has no tasks")

	// ErrEmptyTaskName — задача без имени.
	ErrEmptyTaskName = errors.New("task has empty name")

	// ErrDuplicateTaskName — несколько задач с одинаковым именем.
	// Имена задач — ключи контекста, поэтому обязаны быть уникальными.
	ErrDuplicateTaskName = errors.New("duplicate task name")

	// ErrReservedTaskName — имя задачи начинается с зарезервированного
	// префикса контекста.
	ErrReservedTaskName = errors.New("task name uses reserved prefix")

	// ErrEmptyTaskMod — задача без модуля.
	ErrEmptyTaskMod = errors.New("task has empty mod")

	// ErrEmptyTaskMethod — задача без метода.
	ErrEmptyTaskMethod = errors.New("task has empty method")

	// ErrUnknownTask — пара (mod, method) не зарегистрирована в реестре.
	ErrUnknownTask = errors.New("task implementation not registered")
)

// Ошибки контекста и разрешения ссылок.
var (
	// ErrUnknownStep — ссылка на задачу, которой нет в контексте.
	// Контекст содержит только уже завершённые задачи, поэтому любая
	// ссылка вперёд (включая ссылку задачи на саму себя) даёт эту ошибку.
	ErrUnknownStep = errors.New("context step not found")

	// ErrUnknownStepKey — ссылка на отсутствующий ключ в результате задачи.
	ErrUnknownStepKey = errors.New("key not found in step result")

	// ErrSlotWritten — попытка повторной записи результата под уже
	// занятым именем. Контекст пишется строго один раз на имя.
	ErrSlotWritten = errors.New("context slot already written")

	// ErrReservedSlot — попытка записи результата задачи в
	// зарезервированное пространство имён.
	ErrReservedSlot = errors.New("context slot uses reserved prefix")
)

// Ошибки выполнения задач.
var (
	// ErrNilResult — задача вернула nil вместо результата.
	ErrNilResult = errors.New("task returned nil result")
)

// ConfigError — ошибка конфигурации flow с контекстом.
type ConfigError struct {
	Flow    string // имя flow (может быть пустым при парсинге документа)
	Task    string // имя задачи, где произошла ошибка
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ConfigError) Error() string {
	if e.Task != "" {
		return "task " + e.Task + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError создаёт новую ошибку конфигурации.
func NewConfigError(flow, task, message string, err error) *ConfigError {
	return &ConfigError{
		Flow:    flow,
		Task:    task,
		Message: message,
		Err:     err,
	}
}

// ReferenceError — ошибка разрешения ссылки на контекст.
type ReferenceError struct {
	Step string // имя задачи, на которую ссылались
	Key  string // ключ внутри результата (пустой для ссылки на весь результат)
	Err  error  // ErrUnknownStep или ErrUnknownStepKey
}

// Error реализует интерфейс error.
// Вид сообщения выбирается по базовой ошибке, а не по полю Key:
// пустой ключ — валидная ссылка вида "@step." и тоже ошибка ключа.
func (e *ReferenceError) Error() string {
	if errors.Is(e.Err, ErrUnknownStepKey) {
		return "key '" + e.Key + "' not found in context['" + e.Step + "']"
	}
	return "context step not found: " + e.Step
}

// Unwrap возвращает базовую ошибку.
func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// ContractError — задача нарушила контракт результата.
type ContractError struct {
	Task    string // имя задачи
	Message string // описание нарушения
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ContractError) Error() string {
	return "task " + e.Task + ": " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// TaskError — ошибка, возникшая внутри реализации задачи.
// Исходная ошибка доступна через Unwrap и пробрасывается
// вызывающему без изменений.
type TaskError struct {
	Task   string // имя задачи
	Mod    string // модуль реализации
	Method string // метод реализации
	Err    error  // ошибка реализации
}

// Error реализует интерфейс error.
func (e *TaskError) Error() string {
	return "task " + e.Task + " (" + e.Mod + "." + e.Method + "): " + e.Err.Error()
}

// Unwrap возвращает исходную ошибку задачи.
func (e *TaskError) Unwrap() error {
	return e.Err
}
