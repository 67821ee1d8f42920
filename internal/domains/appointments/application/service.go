package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
	"github.com/petopia/petopia-server/internal/shared/events"
)

const maxTransitionAttempts = 3

// Service orchestrates slot booking and the appointment lifecycle.
type Service struct {
	slots        ports.SlotRepository
	appointments ports.AppointmentRepository
	publisher    events.Publisher
	logger       *slog.Logger
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(slots ports.SlotRepository, appointments ports.AppointmentRepository, opts ...Option) *Service {
	s := &Service{
		slots:        slots,
		appointments: appointments,
		publisher:    events.Noop,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// BookSlot reserves a slot with a single insert-if-absent.
func (s *Service) BookSlot(ctx context.Context, date, serviceType, slot string) (*domain.BookedSlot, error) {
	booked, err := domain.NewBookedSlot(date, serviceType, slot)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.slots.Book(ctx, *booked)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.TypeSlotBooked, saved.Key(), slotPayload(*saved)))
	return saved, nil
}

// BookedSlots lists taken labels for a day and service in time order.
func (s *Service) BookedSlots(ctx context.Context, date, serviceType string) ([]string, error) {
	day, st, err := parseDayAndService(date, serviceType)
	if err != nil {
		return nil, err
	}
	labels, err := s.slots.Booked(ctx, day, st)
	if err != nil {
		return nil, err
	}
	sortSlots(labels)
	return labels, nil
}

// AvailableSlots is the standard day minus the booked labels.
func (s *Service) AvailableSlots(ctx context.Context, date, serviceType string) ([]string, error) {
	booked, err := s.BookedSlots(ctx, date, serviceType)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, label := range booked {
		taken[label] = struct{}{}
	}
	available := make([]string, 0, len(domain.StandardSlots()))
	for _, label := range domain.StandardSlots() {
		if _, ok := taken[label]; !ok {
			available = append(available, label)
		}
	}
	return available, nil
}

func (s *Service) DeleteSlot(ctx context.Context, date, serviceType, slot string) error {
	booked, err := domain.NewBookedSlot(date, serviceType, slot)
	if err != nil {
		return mapError(err)
	}
	if err := s.slots.Release(ctx, *booked); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.TypeSlotReleased, booked.Key(), slotPayload(*booked)))
	return nil
}

// BookAppointment prices the request server-side, reserves the slot, then stores the appointment.
// The slot is released again if the appointment cannot be stored.
func (s *Service) BookAppointment(ctx context.Context, input ports.BookingInput) (*domain.Appointment, error) {
	appt, err := domain.NewAppointment(input.PetID, input.UserID, input.ServiceType, input.Details, input.Date, input.Time)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Amount != nil && !input.Amount.Equal(appt.Amount) {
		s.logger.WarnContext(ctx, "client amount differs from quote, charging quote",
			slog.String("amount.client", input.Amount.String()),
			slog.String("amount.quote", appt.Amount.StringFixed(2)),
			slog.String("service_type", string(appt.ServiceType)))
	}
	slot := appt.Slot()
	if _, err := s.slots.Book(ctx, slot); err != nil {
		return nil, err
	}
	saved, err := s.appointments.Create(ctx, appt)
	if err != nil {
		if releaseErr := s.slots.Release(ctx, slot); releaseErr != nil && !errors.Is(releaseErr, ports.ErrSlotNotFound) {
			s.logger.ErrorContext(ctx, "failed to release slot after booking failure",
				slog.String("slot", slot.Key()), slog.String("error", releaseErr.Error()))
		}
		return nil, err
	}
	s.publish(ctx, events.New(events.TypeSlotBooked, slot.Key(), slotPayload(slot)))
	s.publishStatus(ctx, saved, "")
	return saved, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	if filter.Date != "" {
		if _, err := domain.ParseDate("date", filter.Date); err != nil {
			return nil, mapError(err)
		}
	}
	return s.appointments.List(ctx, filter)
}

func (s *Service) ConfirmAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(ctx, id, (*domain.Appointment).Confirm)
}

// CompleteAppointment has no side effects beyond the status change.
func (s *Service) CompleteAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.transition(ctx, id, (*domain.Appointment).Complete)
}

// CancelAppointment frees the slot after the status change commits.
func (s *Service) CancelAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.transition(ctx, id, (*domain.Appointment).Cancel)
	if err != nil {
		return nil, err
	}
	slot := appt.Slot()
	if err := s.slots.Release(ctx, slot); err != nil {
		if !errors.Is(err, ports.ErrSlotNotFound) {
			s.logger.ErrorContext(ctx, "failed to release slot for cancelled appointment",
				slog.Int64("appointment.id", id), slog.String("error", err.Error()))
		}
		return appt, nil
	}
	s.publish(ctx, events.New(events.TypeSlotReleased, slot.Key(), slotPayload(slot)))
	return appt, nil
}

func (s *Service) Quote(_ context.Context, serviceType string, details domain.Details) (decimal.Decimal, error) {
	st, err := domain.ParseServiceType(serviceType)
	if err != nil {
		return decimal.Zero, mapError(err)
	}
	amount, err := domain.Quote(st, details)
	if err != nil {
		return decimal.Zero, mapError(err)
	}
	return amount, nil
}

func (s *Service) transition(ctx context.Context, id int64, apply func(*domain.Appointment) error) (*domain.Appointment, error) {
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		appt, err := s.appointments.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		from := appt.Status
		if err := apply(appt); err != nil {
			return nil, err
		}
		updated, err := s.appointments.UpdateStatus(ctx, id, from, appt.Status)
		if errors.Is(err, ports.ErrStaleState) {
			s.logger.WarnContext(ctx, "appointment status changed concurrently, retrying",
				slog.Int64("appointment.id", id), slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		s.publishStatus(ctx, updated, from)
		return updated, nil
	}
	return nil, fmt.Errorf("%w: appointment %d", ErrConflict, id)
}

func (s *Service) publishStatus(ctx context.Context, appt *domain.Appointment, from domain.Status) {
	s.publish(ctx, events.New(events.TypeAppointmentStatusChanged, strconv.FormatInt(appt.ID, 10), map[string]any{
		"appointment_id": appt.ID,
		"user_id":        appt.UserID,
		"from":           string(from),
		"to":             string(appt.Status),
	}))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event.type", event.Type), slog.String("error", err.Error()))
	}
}

// parseDayAndService returns the date in the form slots are stored under.
func parseDayAndService(date, serviceType string) (string, domain.ServiceType, error) {
	day, err := domain.ParseDate("date", date)
	if err != nil {
		return "", "", mapError(err)
	}
	st, err := domain.ParseServiceType(serviceType)
	if err != nil {
		return "", "", mapError(err)
	}
	return day.Format(domain.DateLayout), st, nil
}

func sortSlots(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return domain.SlotIndex(labels[i]) < domain.SlotIndex(labels[j])
	})
}

func slotPayload(slot domain.BookedSlot) map[string]any {
	return map[string]any{
		"date":         slot.Date,
		"service_type": string(slot.ServiceType),
		"slot":         slot.Slot,
	}
}

var _ ports.Service = (*Service)(nil)
