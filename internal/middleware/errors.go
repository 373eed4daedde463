package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/infrastructure"
)

// writeProblem sends an RFC 7807 response carrying the request's trace ID.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, title, detail string) {
	problem := apperrors.NewProblemDetails(status, problemType, title, detail, r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}
