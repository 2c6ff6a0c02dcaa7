package domain

// RunStatus — статус выполнения run.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → COMPLETED
//	                  ↘ FAILED
type RunStatus string

const (
	// RunStatusPending — run создан, выполнение ещё не началось.
	RunStatusPending RunStatus = "PENDING"

	// RunStatusRunning — run в процессе выполнения.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusCompleted — все задачи выполнены успешно.
	RunStatusCompleted RunStatus = "COMPLETED"

	// RunStatusFailed — выполнение остановлено первой ошибкой.
	RunStatusFailed RunStatus = "FAILED"
)

// IsTerminal возвращает true для конечных статусов.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// IsValid проверяет, что статус — один из известных.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted, RunStatusFailed:
		return true
	}
	return false
}
