package ports

import (
	"context"
	"errors"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrSlotNotFound      = errors.New("booked slot not found")
	ErrSlotAlreadyBooked = errors.New("this time slot is already booked")
	ErrStaleState        = errors.New("appointment status changed concurrently")
)

// SlotRepository stores booked slots. Uniqueness of (date, service, slot) is enforced by storage.
type SlotRepository interface {
	// Book inserts the slot if absent, returning ErrSlotAlreadyBooked otherwise.
	Book(ctx context.Context, slot domain.BookedSlot) (*domain.BookedSlot, error)
	Booked(ctx context.Context, date string, serviceType domain.ServiceType) ([]string, error)
	Release(ctx context.Context, slot domain.BookedSlot) error
}

// AppointmentFilter narrows List; zero values match everything.
type AppointmentFilter struct {
	UserID int64
	Date   string
}

// AppointmentRepository stores appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]*domain.Appointment, error)
	// UpdateStatus swaps the status only if it still equals from, returning ErrStaleState otherwise.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (*domain.Appointment, error)
}
