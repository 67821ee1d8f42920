package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	apptdomain "github.com/petopia/petopia-server/internal/domains/appointments/domain"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

// SlotRequest is the POST /timeslots/bookSlot payload.
type SlotRequest struct {
	Slot        string `json:"slot"`
	Date        string `json:"date"`
	ServiceType string `json:"serviceType"`
}

// DeleteSlotRequest is the POST /appointments/timeslots/delete payload.
type DeleteSlotRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	ServiceType string `json:"serviceType"`
}

// Slot is one entry of a slot listing.
type Slot struct {
	Slot string `json:"slot"`
}

// BookedSlot echoes a successful booking.
type BookedSlot struct {
	Slot        string    `json:"slot"`
	Date        string    `json:"date"`
	ServiceType string    `json:"serviceType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ServiceDetails holds the service-specific choice, flattened into requests and responses.
type ServiceDetails struct {
	GroomingType  string `json:"groomingType,omitempty"`
	TrainingType  string `json:"trainingType,omitempty"`
	MedicalType   string `json:"medicalType,omitempty"`
	BoardingStart string `json:"boardingStart,omitempty"`
	BoardingEnd   string `json:"boardingEnd,omitempty"`
}

// AppointmentRequest is the POST /appointments payload. Amount is ignored for billing.
type AppointmentRequest struct {
	PetID       int64  `json:"petId"`
	UserID      int64  `json:"userId"`
	ServiceType string `json:"serviceType"`
	ServiceDetails
	Date   string           `json:"date"`
	Time   string           `json:"time"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// QuoteRequest is the POST /appointments/quote payload.
type QuoteRequest struct {
	ServiceType string `json:"serviceType"`
	ServiceDetails
}

// Quote is the server-side price.
type Quote struct {
	ServiceType string          `json:"serviceType"`
	Amount      decimal.Decimal `json:"amount"`
}

// CompleteRequest is the PUT /appointments/complete/:id payload.
type CompleteRequest struct {
	Status string `json:"status"`
}

// Appointment is the HTTP representation of an appointment.
type Appointment struct {
	ID          int64  `json:"id"`
	PetID       int64  `json:"petId"`
	UserID      int64  `json:"userId"`
	ServiceType string `json:"serviceType"`
	ServiceDetails
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func ToDetails(d ServiceDetails) apptdomain.Details {
	return apptdomain.Details{
		GroomingType:  d.GroomingType,
		TrainingType:  d.TrainingType,
		MedicalType:   d.MedicalType,
		BoardingStart: d.BoardingStart,
		BoardingEnd:   d.BoardingEnd,
	}
}

func ToBookingInput(req AppointmentRequest) apptports.BookingInput {
	return apptports.BookingInput{
		PetID:       req.PetID,
		UserID:      req.UserID,
		ServiceType: req.ServiceType,
		Details:     ToDetails(req.ServiceDetails),
		Date:        req.Date,
		Time:        req.Time,
		Amount:      req.Amount,
	}
}

// FromSlotLabels wraps labels as [{slot}] objects; never nil.
func FromSlotLabels(labels []string) []Slot {
	out := make([]Slot, 0, len(labels))
	for _, label := range labels {
		out = append(out, Slot{Slot: label})
	}
	return out
}

func FromDomainSlot(s *apptdomain.BookedSlot) BookedSlot {
	return BookedSlot{Slot: s.Slot, Date: s.Date, ServiceType: string(s.ServiceType), CreatedAt: s.CreatedAt}
}

func FromDomainAppointment(a *apptdomain.Appointment) Appointment {
	return Appointment{
		ID:          a.ID,
		PetID:       a.PetID,
		UserID:      a.UserID,
		ServiceType: string(a.ServiceType),
		ServiceDetails: ServiceDetails{
			GroomingType:  a.Details.GroomingType,
			TrainingType:  a.Details.TrainingType,
			MedicalType:   a.Details.MedicalType,
			BoardingStart: a.Details.BoardingStart,
			BoardingEnd:   a.Details.BoardingEnd,
		},
		Date:      a.Date,
		Time:      a.Time,
		Status:    string(a.Status),
		Amount:    a.Amount,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromDomainAppointments(list []*apptdomain.Appointment) []Appointment {
	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		out = append(out, FromDomainAppointment(a))
	}
	return out
}
