package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	petapp "github.com/petopia/petopia-server/internal/domains/pets/application"
	pettypes "github.com/petopia/petopia-server/internal/domains/pets/application/types"
	"github.com/petopia/petopia-server/internal/domains/pets/domain"
	"github.com/petopia/petopia-server/internal/domains/pets/ports"
)

const tracerName = "github.com/petopia/petopia-server/internal/domains/pets/adapters/observability/service"

// Service decorates a pets application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter wires counters.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the pets service.
func New(inner ports.Service, opts ...Option) ports.Service {
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
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) AddPet(ctx context.Context, input pettypes.AddPetInput) (*domain.Pet, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.AddPet", trace.WithAttributes(attribute.String("pet.species", input.Species)))
	defer span.End()
	result, err := s.inner.AddPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add pet")
	}
	s.metrics.recordAdded(ctx)
	span.SetAttributes(attribute.Int64("pet.id", result.ID))
	s.logger.InfoContext(ctx, "pet added", slog.Int64("pet.id", result.ID), slog.String("pet.status", string(result.Status)))
	return result, nil
}

func (s *Service) GetPet(ctx context.Context, id int64) (*domain.Pet, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.GetPet", trace.WithAttributes(attribute.Int64("pet.id", id)))
	defer span.End()
	result, err := s.inner.GetPet(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pet", slog.Int64("pet.id", id))
	}
	return result, nil
}

func (s *Service) ListPets(ctx context.Context, input pettypes.ListPetsInput) ([]*domain.Pet, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.ListPets", trace.WithAttributes(attribute.String("pet.status", input.Status)))
	defer span.End()
	result, err := s.inner.ListPets(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pets")
	}
	span.SetAttributes(attribute.Int("pet.count", len(result)))
	return result, nil
}

func (s *Service) RequestAdoption(ctx context.Context, input pettypes.AdoptionRequestInput) (*domain.Adoption, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.RequestAdoption",
		trace.WithAttributes(attribute.Int64("pet.id", input.PetID), attribute.Int64("adoption.user_id", input.UserID)))
	defer span.End()
	result, err := s.inner.RequestAdoption(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to request adoption", slog.Int64("pet.id", input.PetID))
	}
	s.metrics.recordDecision(ctx, result.Status)
	s.logger.InfoContext(ctx, "adoption requested", slog.Int64("adoption.id", result.ID), slog.Int64("pet.id", input.PetID))
	return result, nil
}

func (s *Service) ApproveAdoption(ctx context.Context, input pettypes.AdoptionDecisionInput) (*domain.Adoption, error) {
	return s.decide(ctx, "PetService.ApproveAdoption", input, s.inner.ApproveAdoption)
}

func (s *Service) RejectAdoption(ctx context.Context, input pettypes.AdoptionDecisionInput) (*domain.Adoption, error) {
	return s.decide(ctx, "PetService.RejectAdoption", input, s.inner.RejectAdoption)
}

func (s *Service) ListAdoptions(ctx context.Context, input pettypes.ListAdoptionsInput) ([]*domain.Adoption, error) {
	ctx, span := s.tracer.Start(ctx, "PetService.ListAdoptions")
	defer span.End()
	result, err := s.inner.ListAdoptions(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list adoptions")
	}
	span.SetAttributes(attribute.Int("adoption.count", len(result)))
	return result, nil
}

func (s *Service) decide(ctx context.Context, name string, input pettypes.AdoptionDecisionInput,
	call func(context.Context, pettypes.AdoptionDecisionInput) (*domain.Adoption, error)) (*domain.Adoption, error) {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("adoption.id", input.AdoptionID)))
	defer span.End()
	result, err := call(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to decide adoption", slog.Int64("adoption.id", input.AdoptionID))
	}
	s.metrics.recordDecision(ctx, result.Status)
	s.logger.InfoContext(ctx, "adoption decided", slog.Int64("adoption.id", result.ID), slog.String("adoption.status", string(result.Status)))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelError
	if errors.Is(err, petapp.ErrInvalidInput) || errors.Is(err, petapp.ErrInvalidState) ||
		errors.Is(err, ports.ErrNotFound) || errors.Is(err, ports.ErrAdoptionNotFound) {
		level = slog.LevelWarn
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	petsAdded metric.Int64Counter
	adoptions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	added, _ := m.Int64Counter("pets.service.added", metric.WithDescription("Number of pets registered"))
	adoptions, _ := m.Int64Counter("pets.service.adoptions", metric.WithDescription("Adoption requests by resulting status"))
	return serviceMetrics{petsAdded: added, adoptions: adoptions}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.petsAdded != nil {
		m.petsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDecision(ctx context.Context, status domain.AdoptionStatus) {
	if m.adoptions != nil {
		m.adoptions.Add(ctx, 1, metric.WithAttributes(attribute.String("adoption.status", string(status))))
	}
}

var _ ports.Service = (*Service)(nil)
