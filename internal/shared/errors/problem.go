// Package errors renders Petopia failures as RFC 7807 problem documents.
package errors

import (
	"encoding/json"
	"net/http"
)

// ProblemDetail is one application/problem+json body.
// Extensions sit beside the standard members on the wire, never under a nested key.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		body[k] = v
	}
	body["type"] = p.Type
	body["title"] = p.Title
	body["status"] = p.Status
	if p.Detail != "" {
		body["detail"] = p.Detail
	}
	if p.Instance != "" {
		body["instance"] = p.Instance
	}
	return json.Marshal(body)
}

func (p ProblemDetail) Error() string {
	if p.Detail == "" {
		return p.Title
	}
	return p.Title + ": " + p.Detail
}

// WithDetail copies p with an occurrence-specific message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension copies p with one more top-level member. The template's map is never shared.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

const (
	TypeBadRequest   = "/problems/bad-request"
	TypeValidation   = "/problems/validation-error"
	TypeUnauthorized = "/problems/unauthorized"
	TypeNotFound     = "/problems/not-found"
	TypeConflict     = "/problems/conflict"
	TypeTransition   = "/problems/invalid-transition"
	TypeInternal     = "/problems/internal-error"
)

// Templates handed to Sentinel. Callers add the detail.
var (
	ErrBadRequest   = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}
	ErrValidation   = ProblemDetail{Type: TypeValidation, Title: "Validation Error", Status: http.StatusBadRequest}
	ErrUnauthorized = ProblemDetail{Type: TypeUnauthorized, Title: "Unauthorized", Status: http.StatusUnauthorized}
	ErrNotFound     = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}
	ErrConflict     = ProblemDetail{Type: TypeConflict, Title: "Conflict", Status: http.StatusConflict}
	ErrInternal     = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}
)

// NewTransitionProblem reports a rejected order status change. Clients read the
// error and allowedTransitions members; a terminal status yields an empty list.
func NewTransitionProblem(detail string, allowed []string) ProblemDetail {
	if allowed == nil {
		allowed = []string{}
	}
	return ProblemDetail{
		Type:   TypeTransition,
		Title:  "Invalid Status Transition",
		Status: http.StatusBadRequest,
		Detail: detail,
	}.WithExtension("error", detail).WithExtension("allowedTransitions", allowed)
}
