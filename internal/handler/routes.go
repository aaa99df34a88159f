package handler

import "net/http"

// Handlers bundles every HTTP handler the server mounts
type Handlers struct {
	Health    *HealthHandler
	Datarooms *DataroomHandler
	Folders   *FolderHandler
	Files     *FileHandler
	Tree      *TreeHandler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ enhanced patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	// Health check
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Dataroom routes
	mux.HandleFunc("POST /datarooms", h.Datarooms.CreateDataroom)
	mux.HandleFunc("GET /datarooms", h.Datarooms.ListDatarooms)
	mux.HandleFunc("GET /datarooms/{id}", h.Datarooms.GetDataroom)
	mux.HandleFunc("DELETE /datarooms/{id}", h.Datarooms.DeleteDataroom)
	mux.HandleFunc("GET /datarooms/{id}/tree", h.Tree.GetTree)

	// Folder routes
	mux.HandleFunc("GET /datarooms/{id}/folders", h.Folders.ListRootFolders)
	mux.HandleFunc("POST /datarooms/{id}/folders", h.Folders.CreateFolder)
	mux.HandleFunc("GET /datarooms/{id}/folders/{folderId}/contents", h.Folders.ListContents)
	mux.HandleFunc("PATCH /folders/{folderId}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /folders/{folderId}", h.Folders.DeleteFolder)

	// File routes
	mux.HandleFunc("POST /datarooms/{id}/folders/{folderId}/files", h.Files.UploadFile)
	mux.HandleFunc("GET /files/{id}", h.Files.DownloadFile)
	mux.HandleFunc("GET /files/{id}/metadata", h.Files.GetFileMetadata)
	mux.HandleFunc("PATCH /files/{id}", h.Files.RenameFile)
	mux.HandleFunc("DELETE /files/{id}", h.Files.DeleteFile)
}
