package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/repo"
)

// Runner выполняет flow по имени. Реализуется engine.Engine.
type Runner interface {
	Execute(ctx context.Context, flowName string) (*engine.Result, error)
}

// Scheduler — планировщик, обрабатывающий due schedules.
//
// Каждое срабатывание выполняет flow прямо в процессе планировщика,
// через тот же движок, что и ручные запуски.
type Scheduler struct {
	scheduleRepo *repo.ScheduleRepo
	runner       Runner
	logger       *slog.Logger
	batchSize    int
}

// Config — конфигурация Scheduler.
type Config struct {
	ScheduleRepo *repo.ScheduleRepo
	Runner       Runner
	Logger       *slog.Logger
	BatchSize    int // количество schedules за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Scheduler{
		scheduleRepo: cfg.ScheduleRepo,
		runner:       cfg.Runner,
		logger:       cfg.Logger,
		batchSize:    batchSize,
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due schedules (enabled=true, next_due_at <= now)
// 2. Для каждого schedule выполняет flow
// 3. Вычисляет и сохраняет новое next_due_at
//
// Ошибки одного schedule не блокируют обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	schedules, err := s.scheduleRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due schedules: %w", err)
	}

	if len(schedules) == 0 {
		return nil
	}

	s.logger.Debug("found due schedules", "count", len(schedules))

	var fired int
	for i := range schedules {
		sched := &schedules[i]

		if err := s.processSchedule(ctx, sched, now); err != nil {
			s.logger.Error("failed to process schedule",
				"schedule_id", sched.ID,
				"flow", sched.FlowName,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}
		fired++
	}

	s.logger.Info("scheduler tick completed", "due", len(schedules), "fired", fired)

	return nil
}

// processSchedule обрабатывает одно срабатывание.
func (s *Scheduler) processSchedule(ctx context.Context, sched *domain.Schedule, now time.Time) error {
	result, err := s.runner.Execute(ctx, sched.FlowName)
	if err != nil && result == nil {
		// Flow не найден или некорректно сконфигурирован — срабатывание
		// пропущено, но schedule остаётся и сдвигается вперёд.
		s.logger.Warn("scheduled flow did not run",
			"schedule_id", sched.ID,
			"flow", sched.FlowName,
			"error", err,
		)
	} else {
		s.logger.Info("scheduled run finished",
			"schedule_id", sched.ID,
			"flow", sched.FlowName,
			"run_id", result.Run.ID,
			"status", result.Run.Status,
		)
	}

	// Вычисляем следующее время срабатывания
	nextDue, err := CalculateNextDue(sched, now)
	if err != nil {
		// Некорректный schedule: выключаем, чтобы не молотить каждый тик
		s.logger.Error("failed to calculate next due, disabling schedule",
			"schedule_id", sched.ID,
			"error", err,
		)
		if err := s.scheduleRepo.SetEnabled(ctx, sched.ID, false); err != nil {
			return fmt.Errorf("disable schedule: %w", err)
		}
		return nil
	}

	if result != nil {
		sched.RecordRun(result.Run.ID, nextDue)
	} else {
		sched.NextDueAt = &nextDue
		sched.UpdatedAt = time.Now()
	}

	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}

	return nil
}

// Run запускает цикл планировщика с заданным интервалом тиков.
// Блокируется до отмены ctx.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("scheduler tick failed", "error", err)
			}
		}
	}
}
