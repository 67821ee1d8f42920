package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblemJSON = "application/problem+json"

const internalDetail = "an unexpected error occurred"

// ErrorMapper turns a use-case error into a problem, reporting false when it does not recognise it.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Sentinel answers every error wrapping target with template, using the error text as detail.
func Sentinel(target error, template ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, target) {
			return ProblemDetail{}, false
		}
		return template.WithDetail(err.Error()), true
	}
}

// Responder writes problem documents, consulting its mappers in registration order.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	Logger  *slog.Logger
}

// NewResponder prefixes relative problem types with baseURI when it is set.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers}
}

// Use appends mappers; earlier ones win.
func (r *Responder) Use(mappers ...ErrorMapper) {
	r.mappers = append(r.mappers, mappers...)
}

// Map runs the mapper chain without writing anything.
func (r *Responder) Map(err error) (ProblemDetail, bool) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem, true
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem, true
	}
	return ProblemDetail{}, false
}

func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err and responds. Unmapped errors are logged with the request
// and answered with a generic 500 so driver messages never reach the client.
func (r *Responder) RespondError(c *gin.Context, err error) {
	if problem, ok := r.Map(err); ok {
		r.Respond(c, problem)
		return
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	_ = c.Error(err)
	r.Respond(c, ErrInternal.WithDetail(internalDetail))
}
