package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Conveyor/internal/domain"
)

// FlowRepo — репозиторий определений flow.
//
// Ключ записи — уникальное имя flow. Удаление всегда мягкое:
// запись помечается deleted и сохраняется ради истории.
type FlowRepo struct {
	pool *pgxpool.Pool
}

// NewFlowRepo создаёт новый FlowRepo.
func NewFlowRepo(pool *pgxpool.Pool) *FlowRepo {
	return &FlowRepo{pool: pool}
}

// Create создаёт новый flow.
func (r *FlowRepo) Create(ctx context.Context, flow *domain.Flow) error {
	query := `
		INSERT INTO flows (flow_name, flow_json, enabled, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		flow.FlowName,
		flow.FlowJSON,
		flow.Enabled,
		flow.Deleted,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: flow %s", ErrAlreadyExists, flow.FlowName)
	}
	if err != nil {
		return fmt.Errorf("insert flow: %w", err)
	}
	return nil
}

// GetByName возвращает flow по имени, включая выключенные и мягко
// удалённые записи. Фильтрация по флагам — забота загрузчика.
func (r *FlowRepo) GetByName(ctx context.Context, name string) (*domain.Flow, error) {
	query := `
		SELECT flow_name, flow_json, enabled, deleted, created_at, updated_at
		FROM flows
		WHERE flow_name = $1
	`
	var flow domain.Flow
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&flow.FlowName,
		&flow.FlowJSON,
		&flow.Enabled,
		&flow.Deleted,
		&flow.CreatedAt,
		&flow.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow by name: %w", err)
	}
	return &flow, nil
}

// List возвращает все неудалённые flow.
func (r *FlowRepo) List(ctx context.Context) ([]domain.Flow, error) {
	query := `
		SELECT flow_name, flow_json, enabled, deleted, created_at, updated_at
		FROM flows
		WHERE deleted = FALSE
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	defer rows.Close()

	var flows []domain.Flow
	for rows.Next() {
		var flow domain.Flow
		if err := rows.Scan(
			&flow.FlowName,
			&flow.FlowJSON,
			&flow.Enabled,
			&flow.Deleted,
			&flow.CreatedAt,
			&flow.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

// UpdateDoc заменяет документ flow.
func (r *FlowRepo) UpdateDoc(ctx context.Context, name, flowJSON string) error {
	query := `
		UPDATE flows
		SET flow_json = $2, updated_at = NOW()
		WHERE flow_name = $1 AND deleted = FALSE
	`
	result, err := r.pool.Exec(ctx, query, name, flowJSON)
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Rename переименовывает flow.
func (r *FlowRepo) Rename(ctx context.Context, oldName, newName string) error {
	query := `
		UPDATE flows
		SET flow_name = $2, updated_at = NOW()
		WHERE flow_name = $1 AND deleted = FALSE
	`
	result, err := r.pool.Exec(ctx, query, oldName, newName)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: flow %s", ErrAlreadyExists, newName)
	}
	if err != nil {
		return fmt.Errorf("rename flow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEnabled включает/выключает flow.
func (r *FlowRepo) SetEnabled(ctx context.Context, name string, enabled bool) error {
	query := `
		UPDATE flows
		SET enabled = $2, updated_at = NOW()
		WHERE flow_name = $1 AND deleted = FALSE
	`
	result, err := r.pool.Exec(ctx, query, name, enabled)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete помечает flow удалённым. Запись остаётся в таблице.
func (r *FlowRepo) SoftDelete(ctx context.Context, name string) error {
	query := `
		UPDATE flows
		SET deleted = TRUE, updated_at = NOW()
		WHERE flow_name = $1 AND deleted = FALSE
	`
	result, err := r.pool.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete flow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation проверяет ошибку нарушения уникальности (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
