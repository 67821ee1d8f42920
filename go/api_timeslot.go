package petopiaserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appthttpmapper "github.com/petopia/petopia-server/internal/domains/appointments/adapters/http/mapper"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

// TimeSlotAPI exposes slot booking for the scheduling widget.
type TimeSlotAPI struct {
	slots apptports.SlotService
}

func NewTimeSlotAPI(slots apptports.SlotService) TimeSlotAPI {
	return TimeSlotAPI{slots: slots}
}

// Post /timeslots/bookSlot
// Reserve a (date, serviceType, slot) triple; 400 when already taken
func (api *TimeSlotAPI) BookSlot(c *gin.Context) {
	var payload appthttpmapper.SlotRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	booked, err := api.slots.BookSlot(c.Request.Context(), payload.Date, payload.ServiceType, payload.Slot)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appthttpmapper.FromDomainSlot(booked))
}

// Get /timeslots/bookedSlots?date&serviceType
func (api *TimeSlotAPI) BookedSlots(c *gin.Context) {
	labels, err := api.slots.BookedSlots(c.Request.Context(), c.Query("date"), c.Query("serviceType"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromSlotLabels(labels))
}

// Get /timeslots/availableSlots?date&serviceType
func (api *TimeSlotAPI) AvailableSlots(c *gin.Context) {
	labels, err := api.slots.AvailableSlots(c.Request.Context(), c.Query("date"), c.Query("serviceType"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appthttpmapper.FromSlotLabels(labels))
}
