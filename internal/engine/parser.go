package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shaiso/Conveyor/internal/domain"
)

// ParseDoc парсит и валидирует документ flow.
//
// Проверяет:
// - Валидность JSON
// - Наличие хотя бы одной задачи
// - Обязательные поля каждой задачи (name, mod, method)
// - Уникальность имён задач
// - Отсутствие зарезервированного префикса в именах
func ParseDoc(data []byte) (*domain.FlowDoc, error) {
	var doc domain.FlowDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewConfigError("", "", fmt.Sprintf("parse flow document: %v", err), ErrMalformedDoc)
	}

	if err := ValidateDoc(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ValidateDoc выполняет полную валидацию распарсенного документа.
func ValidateDoc(doc *domain.FlowDoc) error {
	if doc == nil || len(doc.Tasks) == 0 {
		return NewConfigError("", "", "flow document has no tasks", ErrEmptyTasks)
	}

	// Имена задач — ключи контекста, дубликаты недопустимы.
	seen := make(map[string]bool, len(doc.Tasks))

	for i := range doc.Tasks {
		task := &doc.Tasks[i]

		if err := validateTask(task, i); err != nil {
			return err
		}

		if seen[task.Name] {
			return NewConfigError("", task.Name,
				fmt.Sprintf("duplicate task name: %s", task.Name), ErrDuplicateTaskName)
		}
		seen[task.Name] = true
	}

	return nil
}

// validateTask валидирует одну задачу.
func validateTask(task *domain.TaskSpec, index int) error {
	if task.Name == "" {
		return NewConfigError("", "",
			fmt.Sprintf("task %d has empty name", index), ErrEmptyTaskName)
	}

	if strings.HasPrefix(task.Name, ReservedPrefix) {
		return NewConfigError("", task.Name,
			fmt.Sprintf("task name %q uses reserved prefix %s", task.Name, ReservedPrefix),
			ErrReservedTaskName)
	}

	if task.Mod == "" {
		return NewConfigError("", task.Name, "task has empty mod", ErrEmptyTaskMod)
	}

	if task.Method == "" {
		return NewConfigError("", task.Name, "task has empty method", ErrEmptyTaskMethod)
	}

	return nil
}
