package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the appointment lifecycle.
type Status string

const (
	StatusBooked    Status = "Booked"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ErrInvalidState is returned when a lifecycle action does not apply to the current status.
var ErrInvalidState = errors.New("appointment is not in a valid state for this action")

// StateError explains which action was refused.
type StateError struct {
	Current Status
	Message string
}

func (e *StateError) Error() string { return e.Message }

func (e *StateError) Is(target error) bool { return target == ErrInvalidState }

// Details carries the service-specific choice.
type Details struct {
	GroomingType  string
	TrainingType  string
	MedicalType   string
	BoardingStart string
	BoardingEnd   string
}

// Appointment is a booked clinic service for one pet.
type Appointment struct {
	ID          int64
	PetID       int64
	UserID      int64
	ServiceType ServiceType
	Details     Details
	Date        string
	Time        string
	Status      Status
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAppointment validates the booking and prices it.
func NewAppointment(petID, userID int64, serviceType string, details Details, date, slot string) (*Appointment, error) {
	if petID <= 0 {
		return nil, invalid("petId", "is required")
	}
	if userID <= 0 {
		return nil, invalid("userId", "is required")
	}
	booked, err := NewBookedSlot(date, serviceType, slot)
	if err != nil {
		return nil, err
	}
	amount, err := Quote(booked.ServiceType, details)
	if err != nil {
		return nil, err
	}
	return &Appointment{
		PetID:       petID,
		UserID:      userID,
		ServiceType: booked.ServiceType,
		Details:     trimDetails(details),
		Date:        booked.Date,
		Time:        booked.Slot,
		Status:      StatusBooked,
		Amount:      amount,
	}, nil
}

// Slot returns the booked slot this appointment occupies.
func (a *Appointment) Slot() BookedSlot {
	return BookedSlot{Slot: a.Time, ServiceType: a.ServiceType, Date: a.Date}
}

// Confirm moves a booked appointment to confirmed.
func (a *Appointment) Confirm() error {
	if a.Status != StatusBooked {
		return &StateError{Current: a.Status, Message: "only booked appointments can be confirmed"}
	}
	a.Status = StatusConfirmed
	return nil
}

// Complete is allowed only from Confirmed.
func (a *Appointment) Complete() error {
	if a.Status != StatusConfirmed {
		return &StateError{Current: a.Status, Message: "only confirmed appointments can be completed"}
	}
	a.Status = StatusCompleted
	return nil
}

// Cancel applies to booked or confirmed appointments.
func (a *Appointment) Cancel() error {
	if a.Status != StatusBooked && a.Status != StatusConfirmed {
		return &StateError{Current: a.Status, Message: "only booked or confirmed appointments can be cancelled"}
	}
	a.Status = StatusCancelled
	return nil
}

// Clone returns a copy safe to hand across adapters.
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func trimDetails(d Details) Details {
	return Details{
		GroomingType:  strings.TrimSpace(d.GroomingType),
		TrainingType:  strings.TrimSpace(d.TrainingType),
		MedicalType:   strings.TrimSpace(d.MedicalType),
		BoardingStart: strings.TrimSpace(d.BoardingStart),
		BoardingEnd:   strings.TrimSpace(d.BoardingEnd),
	}
}
