package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/repo"
)

// Runner выполняет flow по имени. Реализуется engine.Engine.
type Runner interface {
	Execute(ctx context.Context, flowName string) (*engine.Result, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	flowRepo     *repo.FlowRepo
	runRepo      *repo.RunRepo
	scheduleRepo *repo.ScheduleRepo
	runner       Runner
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	FlowRepo     *repo.FlowRepo
	RunRepo      *repo.RunRepo
	ScheduleRepo *repo.ScheduleRepo
	Runner       Runner
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		flowRepo:     cfg.FlowRepo,
		runRepo:      cfg.RunRepo,
		scheduleRepo: cfg.ScheduleRepo,
		runner:       cfg.Runner,
		logger:       cfg.Logger,
	}
}
