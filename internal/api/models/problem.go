package models

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 error response.
// This is used for all API error responses with Content-Type: application/problem+json.
type Problem struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is the request path the problem occurred on.
	Instance string `json:"instance,omitempty"`

	// TraceID is the request trace identifier for debugging.
	TraceID string `json:"traceId"`

	// Errors contains structured field validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ProblemType constants for the error types the API answers with.
const (
	ProblemTypeValidation           = "https://api.nutrilog.app/problems/validation-error"
	ProblemTypeUnauthorized         = "https://api.nutrilog.app/problems/unauthorized"
	ProblemTypeNotFound             = "https://api.nutrilog.app/problems/not-found"
	ProblemTypeUnsupportedMediaType = "https://api.nutrilog.app/problems/unsupported-media-type"
	ProblemTypeTooManyRequests      = "https://api.nutrilog.app/problems/too-many-requests"
	ProblemTypeInternal             = "https://api.nutrilog.app/problems/internal-error"
	ProblemTypeStorageUnavailable   = "https://api.nutrilog.app/problems/storage-unavailable"
	ProblemTypeTLSRequired          = "https://api.nutrilog.app/problems/tls-required"
)

type problemKind struct {
	title  string
	status int
}

var problemKinds = map[string]problemKind{
	ProblemTypeValidation:           {"Validation error", http.StatusBadRequest},
	ProblemTypeUnauthorized:         {"Unauthorized", http.StatusUnauthorized},
	ProblemTypeNotFound:             {"Not found", http.StatusNotFound},
	ProblemTypeUnsupportedMediaType: {"Unsupported media type", http.StatusUnsupportedMediaType},
	ProblemTypeTooManyRequests:      {"Too many requests", http.StatusTooManyRequests},
	ProblemTypeInternal:             {"Internal server error", http.StatusInternalServerError},
	ProblemTypeStorageUnavailable:   {"Storage unavailable", http.StatusServiceUnavailable},
	ProblemTypeTLSRequired:          {"TLS required", http.StatusForbidden},
}

// NewProblem creates a Problem of a known type. Unknown types are answered
// as internal errors.
func NewProblem(problemType, traceID, detail string) *Problem {
	kind, ok := problemKinds[problemType]
	if !ok {
		problemType = ProblemTypeInternal
		kind = problemKinds[ProblemTypeInternal]
	}
	return &Problem{
		Type:    problemType,
		Title:   kind.title,
		Status:  kind.status,
		Detail:  detail,
		TraceID: traceID,
	}
}

// Write writes the Problem as JSON to the ResponseWriter.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-Id", p.TraceID)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteFor sets Instance to the request path and writes the Problem.
func (p *Problem) WriteFor(w http.ResponseWriter, r *http.Request) {
	p.Instance = r.URL.Path
	p.Write(w)
}

// NewBadRequest creates a 400 problem carrying field errors.
func NewBadRequest(traceID, detail string, errors []FieldError) *Problem {
	p := NewProblem(ProblemTypeValidation, traceID, detail)
	p.Errors = errors
	return p
}

// NewUnauthorized creates a 401 problem.
func NewUnauthorized(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeUnauthorized, traceID, detail)
}

// NewNotFound creates a 404 problem.
func NewNotFound(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeNotFound, traceID, detail)
}

// NewTooManyRequests creates a 429 problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeTooManyRequests, traceID, detail)
}

// NewInternalError creates a 500 problem.
func NewInternalError(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeInternal, traceID, detail)
}

// NewStorageUnavailable creates a 503 problem for open storage circuits.
func NewStorageUnavailable(traceID, detail string) *Problem {
	return NewProblem(ProblemTypeStorageUnavailable, traceID, detail)
}
