package middleware

import (
	"encoding/json"
	"net/http"

	apierrors "tsquality/internal/errors"
)

// Problem is the RFC 7807 body written directly by middleware that runs
// outside a handler's error path
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

func (p Problem) write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", apierrors.ProblemContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// ProblemFromStatus creates a Problem from an HTTP status code
func ProblemFromStatus(status int, detail string, traceID string) Problem {
	problemType := "/errors/unknown"
	switch status {
	case http.StatusBadRequest:
		problemType = apierrors.TypeValidation
	case http.StatusNotFound:
		problemType = apierrors.TypeNotFound
	case http.StatusMethodNotAllowed:
		problemType = apierrors.TypeMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		problemType = apierrors.TypePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		problemType = apierrors.TypeUnsupportedMedia
	case http.StatusTooManyRequests:
		problemType = apierrors.TypeRateLimit
	case http.StatusInternalServerError:
		problemType = apierrors.TypeInternal
	case http.StatusServiceUnavailable:
		problemType = apierrors.TypeServiceDown
	case http.StatusGatewayTimeout:
		problemType = apierrors.TypeTimeout
	}

	return Problem{
		Type:   problemType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Trace:  traceID,
	}
}

func writeProblem(w http.ResponseWriter, status int, detail, traceID string) {
	ProblemFromStatus(status, detail, traceID).write(w)
}
