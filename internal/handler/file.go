package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	docstoreSvc "dataroom/internal/domain/services/docstore"
	"dataroom/internal/httputil"
)

// multipartMemory is how much of a multipart body is buffered in memory before spilling to disk
const multipartMemory = 8 << 20

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService    docstoreSvc.FileService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService docstoreSvc.FileService, maxUploadBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:    fileService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type renameFileBody struct {
	Name string `json:"name"`
}

// UploadFile stores one PDF sent as multipart field "file"
// POST /datarooms/{id}/folders/{folderId}/files
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	dataroomID, ok := pathParam(w, r, "id", "Dataroom ID")
	if !ok {
		return
	}
	folderID, ok := pathParam(w, r, "folderId", "Folder ID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	content, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer content.Close()

	var uploader *string
	if userID := httputil.GetUserID(r); userID != "" {
		uploader = &userID
	}

	file, err := h.fileService.UploadFile(r.Context(), &docstoreSvc.UploadFileRequest{
		DataroomID:   dataroomID,
		FolderID:     folderID,
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Content:      content,
		UploadedByID: uploader,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// DownloadFile streams the file bytes inline
// GET /files/{id}
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	file, content, err := h.fileService.OpenContent(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content); err != nil {
		// Headers are gone; all we can do is log
		h.logger.Warn("file download interrupted",
			"id", file.ID,
			"error", err,
		)
	}
}

// GetFileMetadata returns the file row
// GET /files/{id}/metadata
func (h *FileHandler) GetFileMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// RenameFile changes the visible file name
// PATCH /files/{id}
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	var body renameFileBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.fileService.RenameFile(r.Context(), id, body.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile deletes a file and its blob
// DELETE /files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", "File ID")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
