package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
)

// Flow DTOs

// CreateFlowRequest — запрос на создание flow.
// Doc — документ flow как есть (объект с полем "tasks").
type CreateFlowRequest struct {
	Name string          `json:"name"`
	Doc  json.RawMessage `json:"doc"`
}

// UpdateFlowRequest — запрос на обновление документа flow.
type UpdateFlowRequest struct {
	Doc json.RawMessage `json:"doc"`
}

// RenameFlowRequest — запрос на переименование flow.
type RenameFlowRequest struct {
	NewName string `json:"new_name"`
}

// SetEnabledRequest — запрос на включение/выключение flow или schedule.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// FlowResponse — ответ с flow.
type FlowResponse struct {
	Name      string          `json:"name"`
	Doc       json.RawMessage `json:"doc"`
	Enabled   bool            `json:"enabled"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FlowFromDomain конвертирует domain.Flow в FlowResponse.
func FlowFromDomain(f domain.Flow) FlowResponse {
	return FlowResponse{
		Name:      f.FlowName,
		Doc:       json.RawMessage(f.FlowJSON),
		Enabled:   f.Enabled,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Run DTOs

// RunResponse — ответ с run.
type RunResponse struct {
	ID         uuid.UUID                 `json:"id"`
	FlowName   string                    `json:"flow_name"`
	Status     domain.RunStatus          `json:"status"`
	FailedTask string                    `json:"failed_task,omitempty"`
	Error      string                    `json:"error,omitempty"`
	Context    map[string]map[string]any `json:"context,omitempty"`
	StartedAt  *time.Time                `json:"started_at,omitempty"`
	FinishedAt *time.Time                `json:"finished_at,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// RunFromDomain конвертирует domain.Run в RunResponse.
func RunFromDomain(r domain.Run) RunResponse {
	return RunResponse{
		ID:         r.ID,
		FlowName:   r.FlowName,
		Status:     r.Status,
		FailedTask: r.FailedTask,
		Error:      r.Error,
		Context:    r.Context,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		CreatedAt:  r.CreatedAt,
	}
}

// RunResultFromEngine конвертирует результат выполнения в RunResponse.
// Контекст берётся из результата движка: для упавшего run он содержит
// результаты задач, успевших завершиться до ошибки.
func RunResultFromEngine(res *engine.Result) RunResponse {
	resp := RunFromDomain(*res.Run)
	if resp.Context == nil && res.Context != nil {
		resp.Context = res.Context.Snapshot()
	}
	return resp
}

// Schedule DTOs

// CreateScheduleRequest — запрос на создание расписания.
// Задаётся либо CronExpr, либо IntervalSec.
type CreateScheduleRequest struct {
	FlowName    string `json:"flow_name"`
	CronExpr    string `json:"cron_expr,omitempty"`
	IntervalSec int    `json:"interval_sec,omitempty"`
}

// ScheduleResponse — ответ с расписанием.
type ScheduleResponse struct {
	ID          uuid.UUID  `json:"id"`
	FlowName    string     `json:"flow_name"`
	CronExpr    string     `json:"cron_expr,omitempty"`
	IntervalSec int        `json:"interval_sec,omitempty"`
	Enabled     bool       `json:"enabled"`
	NextDueAt   *time.Time `json:"next_due_at,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastRunID   *uuid.UUID `json:"last_run_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ScheduleFromDomain конвертирует domain.Schedule в ScheduleResponse.
func ScheduleFromDomain(s domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		FlowName:    s.FlowName,
		CronExpr:    s.CronExpr,
		IntervalSec: s.IntervalSec,
		Enabled:     s.Enabled,
		NextDueAt:   s.NextDueAt,
		LastRunAt:   s.LastRunAt,
		LastRunID:   s.LastRunID,
		CreatedAt:   s.CreatedAt,
	}
}
