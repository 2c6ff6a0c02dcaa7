package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/engine"
)

// ListFlows возвращает список всех flows (кроме удалённых).
// GET /api/v1/flows
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := h.flowRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]FlowResponse, len(flows))
	for i, f := range flows {
		result[i] = FlowFromDomain(f)
	}

	List(w, result, len(result))
}

// CreateFlow создаёт новый flow.
// Документ валидируется до сохранения: битый JSON или пустой список
// задач не попадают в хранилище.
// POST /api/v1/flows
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var req CreateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	if err := validateFlowDoc(req.Doc); err != nil {
		BadRequest(w, err.Error())
		return
	}

	flow := &domain.Flow{
		FlowName: req.Name,
		FlowJSON: string(req.Doc),
		Enabled:  true,
	}

	if err := h.flowRepo.Create(r.Context(), flow); err != nil {
		HandleRepoError(w, h.logger, err, "")
		return
	}

	Created(w, FlowFromDomain(*flow))
}

// GetFlow возвращает flow по имени.
// GET /api/v1/flows/{name}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	flow, err := h.flowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	if flow.Deleted {
		NotFound(w, "flow not found")
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// UpdateFlow заменяет документ flow.
// PUT /api/v1/flows/{name}
func (h *Handler) UpdateFlow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req UpdateFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if err := validateFlowDoc(req.Doc); err != nil {
		BadRequest(w, err.Error())
		return
	}

	if err := h.flowRepo.UpdateDoc(r.Context(), name, string(req.Doc)); err != nil {
		HandleRepoError(w, h.logger, err, "flow not found")
		return
	}

	flow, err := h.flowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// DeleteFlow мягко удаляет flow: запись остаётся в хранилище,
// но становится невидимой для загрузки и списков.
// DELETE /api/v1/flows/{name}
func (h *Handler) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.flowRepo.SoftDelete(r.Context(), name); err != nil {
		HandleRepoError(w, h.logger, err, "flow not found")
		return
	}

	NoContent(w)
}

// RenameFlow переименовывает flow.
// POST /api/v1/flows/{name}/rename
func (h *Handler) RenameFlow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req RenameFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.NewName == "" {
		BadRequest(w, "new_name is required")
		return
	}

	if err := h.flowRepo.Rename(r.Context(), name, req.NewName); err != nil {
		HandleRepoError(w, h.logger, err, "flow not found")
		return
	}

	flow, err := h.flowRepo.GetByName(r.Context(), req.NewName)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// SetFlowEnabled включает или выключает flow.
// PUT /api/v1/flows/{name}/enabled
func (h *Handler) SetFlowEnabled(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req SetEnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if err := h.flowRepo.SetEnabled(r.Context(), name, req.Enabled); err != nil {
		HandleRepoError(w, h.logger, err, "flow not found")
		return
	}

	flow, err := h.flowRepo.GetByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "flow not found") {
		return
	}

	Success(w, FlowFromDomain(*flow))
}

// validateFlowDoc проверяет документ flow перед сохранением.
func validateFlowDoc(raw json.RawMessage) error {
	_, err := engine.ParseDoc(raw)
	return err
}
