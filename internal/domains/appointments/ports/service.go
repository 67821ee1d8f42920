package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
)

// BookingInput carries an appointment request. Amount is the client's displayed price and is never charged.
type BookingInput struct {
	PetID       int64
	UserID      int64
	ServiceType string
	Details     domain.Details
	Date        string
	Time        string
	Amount      *decimal.Decimal
}

// SlotService exposes time-slot booking.
type SlotService interface {
	BookSlot(ctx context.Context, date, serviceType, slot string) (*domain.BookedSlot, error)
	BookedSlots(ctx context.Context, date, serviceType string) ([]string, error)
	AvailableSlots(ctx context.Context, date, serviceType string) ([]string, error)
	DeleteSlot(ctx context.Context, date, serviceType, slot string) error
}

// Service exposes appointment use cases.
type Service interface {
	SlotService
	BookAppointment(ctx context.Context, input BookingInput) (*domain.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]*domain.Appointment, error)
	ConfirmAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	CompleteAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	CancelAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	Quote(ctx context.Context, serviceType string, details domain.Details) (decimal.Decimal, error)
}
