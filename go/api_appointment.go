package petopiaserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appthttpmapper "github.com/petopia/petopia-server/internal/domains/appointments/adapters/http/mapper"
	apptdomain "github.com/petopia/petopia-server/internal/domains/appointments/domain"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"
	apierrors "github.com/petopia/petopia-server/internal/shared/errors"
)

// AppointmentAPI wires HTTP transport with the appointment lifecycle.
type AppointmentAPI struct {
	service apptports.Service
}

func NewAppointmentAPI(service apptports.Service) AppointmentAPI {
	return AppointmentAPI{service: service}
}

// Post /appointments
// Book a slot and create the appointment; the amount is priced server-side
func (api *AppointmentAPI) BookAppointment(c *gin.Context) {
	var payload appthttpmapper.AppointmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	appt, err := api.service.BookAppointment(c.Request.Context(), appthttpmapper.ToBookingInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appthttpmapper.FromDomainAppointment(appt))
}

// Post /appointments/quote
func (api *AppointmentAPI) Quote(c *gin.Context) {
	var payload appthttpmapper.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	amount, err := api.service.Quote(c.Request.Context(), payload.ServiceType, appthttpmapper.ToDetails(payload.ServiceDetails))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.Quote{ServiceType: payload.ServiceType, Amount: amount})
}

// Get /appointments?userId&date
func (api *AppointmentAPI) ListAppointments(c *gin.Context) {
	userID, ok := parseOptionalIDQuery(c, "userId")
	if !ok {
		return
	}
	filter := apptports.AppointmentFilter{UserID: userID, Date: c.Query("date")}
	list, err := api.service.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromDomainAppointments(list))
}

// Get /appointments/:id
func (api *AppointmentAPI) GetAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := api.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromDomainAppointment(appt))
}

// Put /appointments/confirm/:id
func (api *AppointmentAPI) ConfirmAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := api.service.ConfirmAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromDomainAppointment(appt))
}

// Put /appointments/complete/:id
// Only confirmed appointments can be completed
func (api *AppointmentAPI) CompleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload appthttpmapper.CompleteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBindError(c, err)
			return
		}
	}
	if payload.Status != "" && !strings.EqualFold(payload.Status, string(apptdomain.StatusCompleted)) {
		problems.Respond(c, apierrors.ErrBadRequest.WithDetail("status must be Completed"))
		return
	}
	appt, err := api.service.CompleteAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromDomainAppointment(appt))
}

// Put /appointments/cancel/:id
// Cancelling frees the booked slot
func (api *AppointmentAPI) CancelAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	appt, err := api.service.CancelAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromDomainAppointment(appt))
}

// Post /appointments/timeslots/delete
func (api *AppointmentAPI) DeleteSlot(c *gin.Context) {
	var payload appthttpmapper.DeleteSlotRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	if err := api.service.DeleteSlot(c.Request.Context(), payload.Date, payload.ServiceType, payload.Time); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "time slot released"})
}
