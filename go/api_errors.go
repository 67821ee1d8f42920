package petopiaserver

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	apptapp "github.com/petopia/petopia-server/internal/domains/appointments/application"
	apptdomain "github.com/petopia/petopia-server/internal/domains/appointments/domain"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"
	petsapp "github.com/petopia/petopia-server/internal/domains/pets/application"
	petsports "github.com/petopia/petopia-server/internal/domains/pets/ports"
	storeapp "github.com/petopia/petopia-server/internal/domains/store/application"
	storedomain "github.com/petopia/petopia-server/internal/domains/store/domain"
	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
	userapp "github.com/petopia/petopia-server/internal/domains/users/application"
	userports "github.com/petopia/petopia-server/internal/domains/users/ports"
	apierrors "github.com/petopia/petopia-server/internal/shared/errors"
)

var problems = newResponder()

// newResponder chains the mappers of every bounded context. Unmatched errors become a generic 500.
func newResponder() *apierrors.Responder {
	r := apierrors.NewResponder("", orderTransitionProblem)
	r.Use(storeMappers()...)
	r.Use(appointmentMappers()...)
	r.Use(userMappers()...)
	r.Use(petMappers()...)
	return r
}

func orderTransitionProblem(err error) (apierrors.ProblemDetail, bool) {
	var transitionErr *storedomain.TransitionError
	if !errors.As(err, &transitionErr) {
		return apierrors.ProblemDetail{}, false
	}
	allowed := make([]string, 0, len(transitionErr.Allowed))
	for _, s := range transitionErr.Allowed {
		allowed = append(allowed, string(s))
	}
	return apierrors.NewTransitionProblem(transitionErr.Error(), allowed), true
}

func storeMappers() []apierrors.ErrorMapper {
	return []apierrors.ErrorMapper{
		apierrors.Sentinel(storeports.ErrNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(storeports.ErrProductNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(storedomain.ErrInvalidStatus, apierrors.ErrBadRequest),
		apierrors.Sentinel(storeapp.ErrInvalidInput, apierrors.ErrValidation),
		apierrors.Sentinel(storeports.ErrInsufficientStock, apierrors.ErrConflict),
		apierrors.Sentinel(storeapp.ErrConflict, apierrors.ErrConflict),
	}
}

func appointmentMappers() []apierrors.ErrorMapper {
	return []apierrors.ErrorMapper{
		apierrors.Sentinel(apptports.ErrNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(apptports.ErrSlotNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(apptports.ErrSlotAlreadyBooked, apierrors.ErrBadRequest),
		apierrors.Sentinel(apptapp.ErrInvalidInput, apierrors.ErrValidation),
		apierrors.Sentinel(apptdomain.ErrInvalidState, apierrors.ErrBadRequest),
		apierrors.Sentinel(apptapp.ErrConflict, apierrors.ErrConflict),
	}
}

func userMappers() []apierrors.ErrorMapper {
	return []apierrors.ErrorMapper{
		apierrors.Sentinel(userports.ErrNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(userapp.ErrInvalidInput, apierrors.ErrValidation),
		apierrors.Sentinel(userapp.ErrAuthentication, apierrors.ErrUnauthorized),
		apierrors.Sentinel(userapp.ErrConflict, apierrors.ErrConflict),
	}
}

func petMappers() []apierrors.ErrorMapper {
	return []apierrors.ErrorMapper{
		apierrors.Sentinel(petsports.ErrNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(petsports.ErrAdoptionNotFound, apierrors.ErrNotFound),
		apierrors.Sentinel(petsapp.ErrInvalidInput, apierrors.ErrValidation),
		apierrors.Sentinel(petsapp.ErrInvalidState, apierrors.ErrBadRequest),
	}
}

// respondBindError reports malformed JSON or query input.
func respondBindError(c *gin.Context, err error) {
	problems.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// respondServiceError maps a use-case error to its problem document.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		problems.Respond(c, apierrors.ErrBadRequest.WithDetail(fmt.Sprintf("%s must be a positive integer", name)))
		return 0, false
	}
	return id, true
}

// parseOptionalIDQuery reads a numeric query filter; absent means zero.
func parseOptionalIDQuery(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		problems.Respond(c, apierrors.ErrBadRequest.WithDetail(fmt.Sprintf("%s must be a positive integer", name)))
		return 0, false
	}
	return id, true
}
