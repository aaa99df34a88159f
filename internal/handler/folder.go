package handler

import (
	"log/slog"
	"net/http"

	docstoreSvc "dataroom/internal/domain/services/docstore"
	"dataroom/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService docstoreSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService docstoreSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// updateFolderBody is the PATCH body. parent_id=null moves the folder to the root.
type updateFolderBody struct {
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// CreateFolder creates a folder, suffixing the name on collision
// POST /datarooms/{id}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	dataroomID, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}

	var req docstoreSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.DataroomID = dataroomID
	if !validBodyID(w, req.ParentID, "parent_id") {
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListRootFolders lists the top-level folders of a dataroom
// GET /datarooms/{id}/folders
func (h *FolderHandler) ListRootFolders(w http.ResponseWriter, r *http.Request) {
	dataroomID, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}

	folders, err := h.folderService.ListRootFolders(r.Context(), dataroomID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// ListContents lists child folders and files of a folder
// GET /datarooms/{id}/folders/{folderId}/contents
func (h *FolderHandler) ListContents(w http.ResponseWriter, r *http.Request) {
	dataroomID, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}
	folderID, ok := pathParam(w, r, "folderId", "Folder ID")
	if !ok {
		return
	}

	contents, err := h.folderService.ListContents(r.Context(), dataroomID, folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// UpdateFolder renames and/or moves a folder
// PATCH /folders/{folderId}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathParam(w, r, "folderId", "Folder ID")
	if !ok {
		return
	}

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validBodyID(w, body.ParentID.Value, "parent_id") {
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), folderID, &docstoreSvc.UpdateFolderRequest{
		Name: body.Name,
		ParentID: docstoreSvc.OptionalParent{
			Present: body.ParentID.Present,
			Value:   body.ParentID.Value,
		},
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder with all descendants
// DELETE /folders/{folderId}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := pathParam(w, r, "folderId", "Folder ID")
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), folderID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
