package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	apptapp "github.com/petopia/petopia-server/internal/domains/appointments/application"
	apptdomain "github.com/petopia/petopia-server/internal/domains/appointments/domain"
	apptports "github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

const tracerName = "github.com/petopia/petopia-server/internal/domains/appointments/adapters/observability/service"

// Service decorates the appointment service with tracing, logging, and metrics.
type Service struct {
	inner   apptports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner apptports.Service, opts ...Option) apptports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func slotAttrs(date, serviceType, slot string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("slot.date", date),
		attribute.String("slot.service_type", serviceType),
		attribute.String("slot.label", slot),
	}
}

func (s *Service) BookSlot(ctx context.Context, date, serviceType, slot string) (*apptdomain.BookedSlot, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.BookSlot", trace.WithAttributes(slotAttrs(date, serviceType, slot)...))
	defer span.End()

	result, err := s.inner.BookSlot(ctx, date, serviceType, slot)
	if err != nil {
		s.metrics.recordRejectedBooking(ctx, err)
		return nil, s.fail(ctx, span, err, "failed to book slot",
			slog.String("slot.date", date), slog.String("slot.service_type", serviceType), slog.String("slot.label", slot))
	}
	s.metrics.recordBooking(ctx, serviceType)
	s.logger.InfoContext(ctx, "slot booked", slog.String("slot.key", result.Key()))
	return result, nil
}

func (s *Service) BookedSlots(ctx context.Context, date, serviceType string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.BookedSlots",
		trace.WithAttributes(attribute.String("slot.date", date), attribute.String("slot.service_type", serviceType)))
	defer span.End()

	result, err := s.inner.BookedSlots(ctx, date, serviceType)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list booked slots", slog.String("slot.date", date))
	}
	span.SetAttributes(attribute.Int("slot.count", len(result)))
	return result, nil
}

func (s *Service) AvailableSlots(ctx context.Context, date, serviceType string) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.AvailableSlots",
		trace.WithAttributes(attribute.String("slot.date", date), attribute.String("slot.service_type", serviceType)))
	defer span.End()

	result, err := s.inner.AvailableSlots(ctx, date, serviceType)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list available slots", slog.String("slot.date", date))
	}
	span.SetAttributes(attribute.Int("slot.count", len(result)))
	return result, nil
}

func (s *Service) DeleteSlot(ctx context.Context, date, serviceType, slot string) error {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.DeleteSlot", trace.WithAttributes(slotAttrs(date, serviceType, slot)...))
	defer span.End()

	if err := s.inner.DeleteSlot(ctx, date, serviceType, slot); err != nil {
		return s.fail(ctx, span, err, "failed to release slot", slog.String("slot.date", date), slog.String("slot.label", slot))
	}
	s.logger.InfoContext(ctx, "slot released", slog.String("slot.date", date), slog.String("slot.label", slot))
	return nil
}

func (s *Service) BookAppointment(ctx context.Context, input apptports.BookingInput) (*apptdomain.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.BookAppointment",
		trace.WithAttributes(append(slotAttrs(input.Date, input.ServiceType, input.Time),
			attribute.Int64("appointment.user_id", input.UserID),
			attribute.Int64("appointment.pet_id", input.PetID))...))
	defer span.End()

	result, err := s.inner.BookAppointment(ctx, input)
	if err != nil {
		s.metrics.recordRejectedBooking(ctx, err)
		return nil, s.fail(ctx, span, err, "failed to book appointment",
			slog.Int64("appointment.user_id", input.UserID), slog.String("slot.date", input.Date), slog.String("slot.label", input.Time))
	}
	s.metrics.recordBooking(ctx, string(result.ServiceType))
	span.SetAttributes(attribute.Int64("appointment.id", result.ID), attribute.String("appointment.amount", result.Amount.StringFixed(2)))
	s.logger.InfoContext(ctx, "appointment booked",
		slog.Int64("appointment.id", result.ID), slog.String("appointment.amount", result.Amount.StringFixed(2)))
	return result, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*apptdomain.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.GetAppointment", trace.WithAttributes(attribute.Int64("appointment.id", id)))
	defer span.End()

	result, err := s.inner.GetAppointment(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to load appointment", slog.Int64("appointment.id", id))
	}
	return result, nil
}

func (s *Service) ListAppointments(ctx context.Context, filter apptports.AppointmentFilter) ([]*apptdomain.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.ListAppointments")
	defer span.End()

	result, err := s.inner.ListAppointments(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list appointments")
	}
	span.SetAttributes(attribute.Int("appointment.count", len(result)))
	return result, nil
}

func (s *Service) ConfirmAppointment(ctx context.Context, id int64) (*apptdomain.Appointment, error) {
	return s.lifecycle(ctx, "AppointmentService.ConfirmAppointment", id, s.inner.ConfirmAppointment)
}

func (s *Service) CompleteAppointment(ctx context.Context, id int64) (*apptdomain.Appointment, error) {
	return s.lifecycle(ctx, "AppointmentService.CompleteAppointment", id, s.inner.CompleteAppointment)
}

func (s *Service) CancelAppointment(ctx context.Context, id int64) (*apptdomain.Appointment, error) {
	return s.lifecycle(ctx, "AppointmentService.CancelAppointment", id, s.inner.CancelAppointment)
}

func (s *Service) Quote(ctx context.Context, serviceType string, details apptdomain.Details) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.Quote", trace.WithAttributes(attribute.String("slot.service_type", serviceType)))
	defer span.End()

	amount, err := s.inner.Quote(ctx, serviceType, details)
	if err != nil {
		return decimal.Zero, s.fail(ctx, span, err, "failed to quote service", slog.String("slot.service_type", serviceType))
	}
	return amount, nil
}

func (s *Service) lifecycle(ctx context.Context, name string, id int64, call func(context.Context, int64) (*apptdomain.Appointment, error)) (*apptdomain.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("appointment.id", id)))
	defer span.End()

	result, err := call(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to change appointment status", slog.Int64("appointment.id", id))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logger.InfoContext(ctx, "appointment status changed",
		slog.Int64("appointment.id", id), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	level := slog.LevelError
	if isClientError(err) {
		level = slog.LevelWarn
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, apptports.ErrNotFound) ||
		errors.Is(err, apptports.ErrSlotNotFound) ||
		errors.Is(err, apptports.ErrSlotAlreadyBooked) ||
		errors.Is(err, apptdomain.ErrInvalidState) ||
		errors.Is(err, apptapp.ErrInvalidInput) ||
		errors.Is(err, apptapp.ErrConflict)
}

type serviceMetrics struct {
	bookings    metric.Int64Counter
	rejected    metric.Int64Counter
	transitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	bookings, _ := m.Int64Counter("appointments.service.bookings", metric.WithDescription("Number of successful slot bookings"))
	rejected, _ := m.Int64Counter("appointments.service.double_bookings", metric.WithDescription("Number of bookings refused because the slot was taken"))
	transitions, _ := m.Int64Counter("appointments.service.status_transitions", metric.WithDescription("Number of committed appointment status changes"))
	return serviceMetrics{bookings: bookings, rejected: rejected, transitions: transitions}
}

func (m serviceMetrics) recordBooking(ctx context.Context, serviceType string) {
	if m.bookings != nil {
		m.bookings.Add(ctx, 1, metric.WithAttributes(attribute.String("slot.service_type", serviceType)))
	}
}

func (m serviceMetrics) recordRejectedBooking(ctx context.Context, err error) {
	if m.rejected != nil && errors.Is(err, apptports.ErrSlotAlreadyBooked) {
		m.rejected.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status apptdomain.Status) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("appointment.status", string(status))))
	}
}

var _ apptports.Service = (*Service)(nil)
