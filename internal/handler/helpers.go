package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"dataroom/internal/domain"
	"dataroom/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		conflictErr *domain.ConflictError
		storageErr  *domain.StorageError
	)

	switch {
	case errors.As(err, &conflictErr):
		httputil.RespondProblem(w, httputil.ConflictProblem(conflictErr))
	case errors.Is(err, domain.ErrConcurrentUpdate):
		httputil.RespondError(w, http.StatusConflict, "the resource was changed concurrently, retry the request")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &storageErr):
		slog.Error("storage failure", "locator", storageErr.Locator, "error", storageErr.Err)
		httputil.RespondProblem(w, httputil.StorageProblem(storageErr))
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathParam reads a route wildcard. An empty value answers 400 and a value
// that is not a UUID answers 404, since no row can carry that ID.
func pathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		httputil.RespondError(w, http.StatusNotFound, label+" not found")
		return "", false
	}
	return value, true
}

// validBodyID checks an optional ID from a request body, answering 400 when it
// is not a UUID. Nil and empty values pass; they mean "no parent".
func validBodyID(w http.ResponseWriter, id *string, field string) bool {
	if id == nil || *id == "" {
		return true
	}
	if _, err := uuid.Parse(*id); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid "+field+" format")
		return false
	}
	return true
}
