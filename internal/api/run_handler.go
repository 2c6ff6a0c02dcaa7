package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
	"github.com/shaiso/Conveyor/internal/repo"
)

// ListRuns возвращает список runs с фильтрацией.
// GET /api/v1/runs?flow_name=...&status=...&limit=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter := repo.RunFilter{
		FlowName: r.URL.Query().Get("flow_name"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		rs := domain.RunStatus(status)
		if !rs.IsValid() {
			BadRequest(w, "invalid status filter")
			return
		}
		filter.Status = rs
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			BadRequest(w, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	runs, err := h.runRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i, run := range runs {
		result[i] = RunFromDomain(run)
	}

	List(w, result, len(result))
}

// GetRun возвращает run по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.runRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}

// CreateRun синхронно выполняет flow и возвращает итоговый run
// вместе с финальным контекстом. Для упавшего run ответ всё равно
// 200: итог выполнения — это данные, а не ошибка API.
// POST /api/v1/flows/{name}/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	res, err := h.runner.Execute(r.Context(), name)
	if err != nil && res == nil {
		if errors.Is(err, engine.ErrFlowNotFound) {
			NotFound(w, "flow not found")
			return
		}

		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			BadRequest(w, cfgErr.Error())
			return
		}

		InternalError(w, h.logger, err)
		return
	}

	Success(w, RunResultFromEngine(res))
}
