package application

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	pettypes "github.com/petopia/petopia-server/internal/domains/pets/application/types"
	"github.com/petopia/petopia-server/internal/domains/pets/domain"
	"github.com/petopia/petopia-server/internal/domains/pets/ports"
	"github.com/petopia/petopia-server/internal/shared/events"
)

// Service orchestrates the pets bounded context use cases.
type Service struct {
	repo      ports.Repository
	publisher events.Publisher
	logger    *slog.Logger
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

// NewService wires the pets service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, publisher: events.Noop, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddPet persists a new pet.
func (s *Service) AddPet(ctx context.Context, input pettypes.AddPetInput) (*domain.Pet, error) {
	pet, err := domain.NewPet(input.OwnerID, input.Name, input.Species, input.Breed, input.AgeYears)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, pet)
}

func (s *Service) GetPet(ctx context.Context, id int64) (*domain.Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPets returns every pet, or those in one status.
func (s *Service) ListPets(ctx context.Context, input pettypes.ListPetsInput) ([]*domain.Pet, error) {
	var status domain.Status
	if input.Status != "" {
		parsed, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, mapError(err)
		}
		status = parsed
	}
	return s.repo.List(ctx, status)
}

// RequestAdoption reserves an available pet for the requester.
func (s *Service) RequestAdoption(ctx context.Context, input pettypes.AdoptionRequestInput) (*domain.Adoption, error) {
	pet, err := s.repo.GetByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}
	adoption, err := domain.RequestAdoption(pet, input.UserID, input.Note)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.OpenAdoption(ctx, adoption)
	if errors.Is(err, ports.ErrStaleState) {
		return nil, mapError(domain.ErrNotAdoptable)
	}
	if err != nil {
		return nil, err
	}
	s.publishAll(ctx, saved.ID, adoption)
	return saved, nil
}

func (s *Service) ApproveAdoption(ctx context.Context, input pettypes.AdoptionDecisionInput) (*domain.Adoption, error) {
	return s.decide(ctx, input, (*domain.Adoption).Approve)
}

func (s *Service) RejectAdoption(ctx context.Context, input pettypes.AdoptionDecisionInput) (*domain.Adoption, error) {
	return s.decide(ctx, input, (*domain.Adoption).Reject)
}

// decide loads the request, lets the domain check it is still Pending, then commits with a guarded update.
// Losing a race to another decision surfaces as the domain's already-decided error.
func (s *Service) decide(ctx context.Context, input pettypes.AdoptionDecisionInput, apply func(*domain.Adoption, string) error) (*domain.Adoption, error) {
	adoption, err := s.repo.GetAdoption(ctx, input.AdoptionID)
	if err != nil {
		return nil, err
	}
	if err := apply(adoption, input.Note); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.CloseAdoption(ctx, adoption)
	if errors.Is(err, ports.ErrStaleState) {
		return nil, mapError(domain.ErrAlreadyDecided)
	}
	if err != nil {
		return nil, err
	}
	s.publishAll(ctx, saved.ID, adoption)
	return saved, nil
}

func (s *Service) ListAdoptions(ctx context.Context, input pettypes.ListAdoptionsInput) ([]*domain.Adoption, error) {
	filter := ports.AdoptionFilter{UserID: input.UserID, PetID: input.PetID}
	switch domain.AdoptionStatus(input.Status) {
	case "":
	case domain.AdoptionPending, domain.AdoptionApproved, domain.AdoptionRejected:
		filter.Status = domain.AdoptionStatus(input.Status)
	default:
		return nil, mapError(domain.ErrInvalidStatus)
	}
	return s.repo.ListAdoptions(ctx, filter)
}

func (s *Service) publishAll(ctx context.Context, adoptionID int64, aggregate domain.AggregateWithEvents) {
	key := strconv.FormatInt(adoptionID, 10)
	for _, e := range aggregate.Events() {
		event := events.New(e.EventName(), key, e)
		event.OccurredAt = e.OccurredAt()
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish event",
				slog.String("event.type", event.Type), slog.String("error", err.Error()))
		}
	}
	aggregate.ClearEvents()
}

var _ ports.Service = (*Service)(nil)
