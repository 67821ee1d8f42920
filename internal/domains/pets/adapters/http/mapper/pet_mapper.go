package mapper

import (
	"time"

	petstypes "github.com/petopia/petopia-server/internal/domains/pets/application/types"
	"github.com/petopia/petopia-server/internal/domains/pets/domain"
)

// PetRequest is the POST /api/pets payload.
type PetRequest struct {
	OwnerID  int64  `json:"ownerId"`
	Name     string `json:"name"`
	Species  string `json:"species"`
	Breed    string `json:"breed"`
	AgeYears int32  `json:"ageYears"`
}

// Pet is the HTTP representation of a pet.
type Pet struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerId,omitempty"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed,omitempty"`
	AgeYears  int32     `json:"ageYears"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdoptionRequest is the POST /api/adoptions payload.
type AdoptionRequest struct {
	PetID  int64  `json:"petId" binding:"required"`
	UserID int64  `json:"userId" binding:"required"`
	Note   string `json:"note"`
}

// DecisionRequest is the optional body of approve/reject.
type DecisionRequest struct {
	Note string `json:"note"`
}

// Adoption is the HTTP representation of an adoption request.
type Adoption struct {
	ID        int64     `json:"id"`
	PetID     int64     `json:"petId"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToAddPetInput(req PetRequest) petstypes.AddPetInput {
	return petstypes.AddPetInput{
		OwnerID:  req.OwnerID,
		Name:     req.Name,
		Species:  req.Species,
		Breed:    req.Breed,
		AgeYears: req.AgeYears,
	}
}

func ToAdoptionRequestInput(req AdoptionRequest) petstypes.AdoptionRequestInput {
	return petstypes.AdoptionRequestInput{PetID: req.PetID, UserID: req.UserID, Note: req.Note}
}

func FromDomainPet(p *domain.Pet) Pet {
	return Pet{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		AgeYears:  p.AgeYears,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDomainPets(pets []*domain.Pet) []Pet {
	out := make([]Pet, 0, len(pets))
	for _, p := range pets {
		out = append(out, FromDomainPet(p))
	}
	return out
}

func FromDomainAdoption(a *domain.Adoption) Adoption {
	return Adoption{
		ID:        a.ID,
		PetID:     a.PetID,
		UserID:    a.UserID,
		Status:    string(a.Status),
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromDomainAdoptions(list []*domain.Adoption) []Adoption {
	out := make([]Adoption, 0, len(list))
	for _, a := range list {
		out = append(out, FromDomainAdoption(a))
	}
	return out
}
