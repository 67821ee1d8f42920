package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petopia/petopia-server/internal/domains/pets/domain"
	"github.com/petopia/petopia-server/internal/domains/pets/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps pets and adoptions behind one mutex so adoption writes stay atomic.
type Repository struct {
	mu             sync.Mutex
	pets           map[int64]*domain.Pet
	adoptions      map[int64]*domain.Adoption
	nextPetID      int64
	nextAdoptionID int64
	now            func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		pets:      map[int64]*domain.Pet{},
		adoptions: map[int64]*domain.Adoption{},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

func (r *Repository) Create(_ context.Context, pet *domain.Pet) (*domain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := pet.Clone()
	r.nextPetID++
	clone.ID = r.nextPetID
	clone.CreatedAt, clone.UpdatedAt = r.now(), r.now()
	r.pets[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return pet.Clone(), nil
}

func (r *Repository) List(_ context.Context, status domain.Status) ([]*domain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Pet, 0, len(r.pets))
	for _, pet := range r.pets {
		if status != "" && pet.Status != status {
			continue
		}
		list = append(list, pet.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) OpenAdoption(_ context.Context, adoption *domain.Adoption) (*domain.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pet, ok := r.pets[adoption.PetID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if pet.Status != domain.StatusAvailable {
		return nil, ports.ErrStaleState
	}
	pet.Status = domain.StatusPending
	pet.UpdatedAt = r.now()

	clone := adoption.Clone()
	r.nextAdoptionID++
	clone.ID = r.nextAdoptionID
	clone.CreatedAt, clone.UpdatedAt = r.now(), r.now()
	r.adoptions[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) CloseAdoption(_ context.Context, adoption *domain.Adoption) (*domain.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.adoptions[adoption.ID]
	if !ok {
		return nil, ports.ErrAdoptionNotFound
	}
	if stored.Status != domain.AdoptionPending {
		return nil, ports.ErrStaleState
	}
	stored.Status = adoption.Status
	stored.Note = adoption.Note
	stored.UpdatedAt = r.now()
	if pet, ok := r.pets[stored.PetID]; ok && pet.Status == domain.StatusPending {
		pet.Status = adoption.Status.PetStatusAfter()
		if adoption.Status == domain.AdoptionApproved {
			pet.OwnerID = stored.UserID
		}
		pet.UpdatedAt = r.now()
	}
	return stored.Clone(), nil
}

func (r *Repository) GetAdoption(_ context.Context, id int64) (*domain.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	adoption, ok := r.adoptions[id]
	if !ok {
		return nil, ports.ErrAdoptionNotFound
	}
	return adoption.Clone(), nil
}

func (r *Repository) ListAdoptions(_ context.Context, filter ports.AdoptionFilter) ([]*domain.Adoption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Adoption, 0, len(r.adoptions))
	for _, a := range r.adoptions {
		if filter.UserID != 0 && a.UserID != filter.UserID {
			continue
		}
		if filter.PetID != 0 && a.PetID != filter.PetID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		list = append(list, a.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}
