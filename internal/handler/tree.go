package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "dataroom/internal/domain/services/docstore"
	"dataroom/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	treeService docstoreSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService docstoreSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder/file tree for a dataroom
// GET /datarooms/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	dataroomID, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}

	tree, err := h.treeService.GetTree(r.Context(), dataroomID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
