package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/repo"
)

// Storage — хранилище определений flow.
// Реализуется repo.FlowRepo; в тестах подменяется фейком.
type Storage interface {
	// GetByName возвращает запись flow по имени.
	// Отсутствие записи — repo.ErrNotFound.
	GetByName(ctx context.Context, name string) (*domain.Flow, error)
}

// Loader загружает и парсит определения flow из хранилища.
type Loader struct {
	storage Storage
}

// NewLoader создаёт новый Loader.
func NewLoader(storage Storage) *Loader {
	return &Loader{storage: storage}
}

// Load возвращает распарсенный документ flow по имени.
//
// Выключенные и мягко удалённые flow невидимы: для них, как и для
// несуществующего имени, возвращается ErrFlowNotFound. Документ
// парсится заново при каждой загрузке — определение неизменно только
// в рамках одного запуска.
func (l *Loader) Load(ctx context.Context, name string) (*domain.FlowDoc, error) {
	flow, err := l.storage.GetByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load flow %s: %w", name, err)
	}

	if !flow.Runnable() {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, name)
	}

	return ParseDoc([]byte(flow.FlowJSON))
}
