package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LogRepo — приёмник системных логов в таблице system_log.
//
// Используется только telemetry.DBHandler. Отказ записи не критичен
// для вызывающего: наблюдаемость не должна блокировать выполнение.
type LogRepo struct {
	pool *pgxpool.Pool
}

// NewLogRepo создаёт новый LogRepo.
func NewLogRepo(pool *pgxpool.Pool) *LogRepo {
	return &LogRepo{pool: pool}
}

// Insert записывает одну лог-запись.
func (r *LogRepo) Insert(ctx context.Context, level, loggerName, message string) error {
	query := `
		INSERT INTO system_log (level, logger_name, message)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, level, loggerName, message)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}
