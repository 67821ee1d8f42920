package ports

import (
	"context"

	pettypes "github.com/petopia/petopia-server/internal/domains/pets/application/types"
	"github.com/petopia/petopia-server/internal/domains/pets/domain"
)

// Service defines the pets use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddPet(ctx context.Context, input pettypes.AddPetInput) (*domain.Pet, error)
	GetPet(ctx context.Context, id int64) (*domain.Pet, error)
	ListPets(ctx context.Context, input pettypes.ListPetsInput) ([]*domain.Pet, error)
	RequestAdoption(ctx context.Context, input pettypes.AdoptionRequestInput) (*domain.Adoption, error)
	ApproveAdoption(ctx context.Context, input pettypes.AdoptionDecisionInput) (*domain.Adoption, error)
	RejectAdoption(ctx context.Context, input pettypes.AdoptionDecisionInput) (*domain.Adoption, error)
	ListAdoptions(ctx context.Context, input pettypes.ListAdoptionsInput) ([]*domain.Adoption, error)
}
