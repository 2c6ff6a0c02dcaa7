package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — экземпляр выполнения flow.
//
// Run создаётся при каждом запуске: вручную через API/CLI или
// планировщиком по расписанию. Один run — один строго
// последовательный проход по списку задач flow.
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// FlowName — имя выполняемого flow.
	FlowName string `json:"flow_name"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// FailedTask — имя задачи, на которой run остановился.
	// Пустая строка, если run не падал.
	FailedTask string `json:"failed_task,omitempty"`

	// Error — текст ошибки для статуса FAILED.
	Error string `json:"error,omitempty"`

	// Context — финальный контекст запуска: результаты выполненных
	// задач по их именам. Для упавшего run содержит результаты
	// задач, успевших завершиться до ошибки.
	Context map[string]map[string]any `json:"context,omitempty"`

	// StartedAt — время перехода в RUNNING.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время перехода в терминальный статус.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run в статусе PENDING.
func NewRun(flowName string) *Run {
	return &Run{
		ID:        uuid.New(),
		FlowName:  flowName,
		Status:    RunStatusPending,
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

// IsFinished возвращает true, если run завершён.
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkCompleted переводит run в статус COMPLETED.
func (r *Run) MarkCompleted() {
	now := time.Now()
	r.Status = RunStatusCompleted
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с именем упавшей задачи.
func (r *Run) MarkFailed(taskName string, err error) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FailedTask = taskName
	if err != nil {
		r.Error = err.Error()
	}
	r.FinishedAt = &now
}
