package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "dataroom/internal/domain/services/docstore"
	"dataroom/internal/httputil"
)

// DataroomHandler handles dataroom HTTP requests
type DataroomHandler struct {
	dataroomService docstoreSvc.DataroomService
	logger          *slog.Logger
}

// NewDataroomHandler creates a new dataroom handler
func NewDataroomHandler(dataroomService docstoreSvc.DataroomService, logger *slog.Logger) *DataroomHandler {
	return &DataroomHandler{
		dataroomService: dataroomService,
		logger:          logger,
	}
}

// CreateDataroom creates a new dataroom
// POST /datarooms
func (h *DataroomHandler) CreateDataroom(w http.ResponseWriter, r *http.Request) {
	var req docstoreSvc.CreateDataroomRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dataroom, err := h.dataroomService.CreateDataroom(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, dataroom)
}

// ListDatarooms lists datarooms newest first
// GET /datarooms
func (h *DataroomHandler) ListDatarooms(w http.ResponseWriter, r *http.Request) {
	datarooms, err := h.dataroomService.ListDatarooms(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, datarooms)
}

// GetDataroom retrieves a dataroom
// GET /datarooms/{id}
func (h *DataroomHandler) GetDataroom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}

	dataroom, err := h.dataroomService.GetDataroom(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dataroom)
}

// DeleteDataroom deletes a dataroom with everything in it
// DELETE /datarooms/{id}
func (h *DataroomHandler) DeleteDataroom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}

	if err := h.dataroomService.DeleteDataroom(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
