package ports

import (
	"context"
	"errors"

	"github.com/petopia/petopia-server/internal/domains/pets/domain"
)

var (
	ErrNotFound         = errors.New("pet not found")
	ErrAdoptionNotFound = errors.New("adoption not found")
	// ErrStaleState means a guarded status update matched no row.
	ErrStaleState = errors.New("status changed concurrently")
)

// AdoptionFilter narrows ListAdoptions; zero values match everything.
type AdoptionFilter struct {
	UserID int64
	PetID  int64
	Status domain.AdoptionStatus
}

// Repository stores pets and adoption requests. Adoption writes touch both in one transaction.
type Repository interface {
	Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error)
	GetByID(ctx context.Context, id int64) (*domain.Pet, error)
	List(ctx context.Context, status domain.Status) ([]*domain.Pet, error)

	// OpenAdoption moves the pet from available to pending and inserts the request.
	// It returns ErrStaleState when the pet is no longer available.
	OpenAdoption(ctx context.Context, adoption *domain.Adoption) (*domain.Adoption, error)
	// CloseAdoption swaps the request from Pending to its decision and applies the pet outcome.
	CloseAdoption(ctx context.Context, adoption *domain.Adoption) (*domain.Adoption, error)
	GetAdoption(ctx context.Context, id int64) (*domain.Adoption, error)
	ListAdoptions(ctx context.Context, filter AdoptionFilter) ([]*domain.Adoption, error)
}
