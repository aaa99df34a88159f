package httputil

import (
	"encoding/json"
	"net/http"

	"dataroom/internal/domain"
)

// RespondJSON writes a JSON response with the given status code.
// It marshals first so an encoding failure never follows a written header.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ProblemDetail represents an RFC 7807 Problem Details response
type ProblemDetail struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Extra    map[string]interface{} `json:"-"`
}

// NewProblem builds the problem for status with the standard type and title
func NewProblem(status int, detail string) ProblemDetail {
	return ProblemDetail{
		Type:   problemTypes.lookup(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// ConflictProblem describes a sibling or name collision. The conflicting
// resource is named when the store could report it.
func ConflictProblem(err *domain.ConflictError) ProblemDetail {
	problem := NewProblem(err.StatusCode(), err.Error())
	problem.Extra = map[string]interface{}{}
	if err.ResourceType != "" {
		problem.Extra["resource_type"] = err.ResourceType
	}
	if err.ResourceID != "" {
		problem.Extra["resource_id"] = err.ResourceID
	}
	return problem
}

// StorageProblem hides the blob store's own error text from clients
func StorageProblem(err *domain.StorageError) ProblemDetail {
	return NewProblem(err.StatusCode(), err.Message)
}

// MarshalJSON flattens Extra into the top-level object
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(p.Extra)+5)
	for k, v := range p.Extra {
		m[k] = v
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	return json.Marshal(m)
}

// RespondProblem writes problem as application/problem+json
func RespondProblem(w http.ResponseWriter, problem ProblemDetail) {
	payload, err := json.Marshal(problem)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	w.Write(payload)
}

// RespondError writes an RFC 7807 Problem Details error response
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondProblem(w, NewProblem(status, detail))
}

// RespondHTTPError answers with the status the domain error carries
func RespondHTTPError(w http.ResponseWriter, err domain.HTTPError) {
	RespondProblem(w, NewProblem(err.StatusCode(), err.Error()))
}

type problemTypeTable map[int]string

func (t problemTypeTable) lookup(status int) string {
	if uri, ok := t[status]; ok {
		return uri
	}
	return "about:blank"
}

var problemTypes = problemTypeTable{
	http.StatusBadRequest:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1",
	http.StatusUnauthorized:          "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1",
	http.StatusForbidden:             "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3",
	http.StatusNotFound:              "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4",
	http.StatusConflict:              "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8",
	http.StatusRequestEntityTooLarge: "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.11",
	http.StatusInternalServerError:   "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1",
	http.StatusBadGateway:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.3",
}
