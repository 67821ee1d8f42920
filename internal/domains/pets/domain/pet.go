package domain

import (
	"errors"
	"strings"
	"time"
)

// Status represents where a pet is in the shelter lifecycle.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusAdopted   Status = "adopted"
	StatusOwned     Status = "owned"
)

var (
	ErrEmptyName      = errors.New("pet name is required")
	ErrEmptySpecies   = errors.New("pet species is required")
	ErrInvalidAge     = errors.New("pet age must be zero or greater")
	ErrInvalidStatus  = errors.New("unknown pet status")
	ErrNotAdoptable   = errors.New("pet is not available for adoption")
	ErrAlreadyDecided = errors.New("only pending adoptions can be decided")
	ErrMissingUser    = errors.New("adopting user is required")
)

// ParseStatus accepts the four lifecycle values.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusAvailable, StatusPending, StatusAdopted, StatusOwned:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Pet is either shelter-owned (OwnerID 0) or registered by a customer.
type Pet struct {
	ID        int64
	OwnerID   int64
	Name      string
	Species   string
	Breed     string
	AgeYears  int32
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPet validates the invariants. A pet with an owner starts as owned, otherwise available.
func NewPet(ownerID int64, name, species, breed string, ageYears int32) (*Pet, error) {
	p := &Pet{OwnerID: ownerID, Breed: strings.TrimSpace(breed), Status: StatusAvailable}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	species = strings.TrimSpace(species)
	if species == "" {
		return nil, ErrEmptySpecies
	}
	p.Species = species
	if ageYears < 0 {
		return nil, ErrInvalidAge
	}
	p.AgeYears = ageYears
	if ownerID > 0 {
		p.Status = StatusOwned
	}
	return p, nil
}

// Rename mutates the pet name ensuring the invariant.
func (p *Pet) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Adoptable reports whether an adoption request may be opened.
func (p *Pet) Adoptable() bool {
	return p.Status == StatusAvailable && p.OwnerID == 0
}

// Clone returns a copy safe to hand across adapters.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
