package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/petopia/petopia-server/internal/domains/pets/domain"
	"github.com/petopia/petopia-server/internal/domains/pets/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pets and adoptions in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&petRecord{}, &adoptionRecord{})
	}
	return repo
}

type petRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	OwnerID   int64     `gorm:"column:owner_id;index"`
	Name      string    `gorm:"column:name"`
	Species   string    `gorm:"column:species"`
	Breed     string    `gorm:"column:breed"`
	AgeYears  int32     `gorm:"column:age_years"`
	Status    string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (petRecord) TableName() string { return "pets" }

type adoptionRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	PetID     int64     `gorm:"column:pet_id;index"`
	UserID    int64     `gorm:"column:user_id;index"`
	Status    string    `gorm:"column:status;type:varchar(16)"`
	Note      string    `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (adoptionRecord) TableName() string { return "adoptions" }

func (r *Repository) Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("pet is nil")
	}
	record := toPetRecord(pet)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return getPet(r.db.WithContext(ctx), id)
}

func (r *Repository) List(ctx context.Context, status domain.Status) ([]*domain.Pet, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var records []petRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	pets := make([]*domain.Pet, 0, len(records))
	for i := range records {
		pets = append(pets, records[i].toDomain())
	}
	return pets, nil
}

// OpenAdoption guards the pet with WHERE status = 'available' and inserts the request in the same transaction.
func (r *Repository) OpenAdoption(ctx context.Context, adoption *domain.Adoption) (*domain.Adoption, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	record := toAdoptionRecord(adoption)
	record.ID = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&petRecord{}).
			Where("id = ? AND status = ?", adoption.PetID, string(domain.StatusAvailable)).
			Updates(map[string]any{"status": string(domain.StatusPending), "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := getPet(tx, adoption.PetID); err != nil {
				return err
			}
			return ports.ErrStaleState
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// CloseAdoption swaps Pending for the decision and moves the pet out of pending in one transaction.
func (r *Repository) CloseAdoption(ctx context.Context, adoption *domain.Adoption) (*domain.Adoption, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var saved *domain.Adoption
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&adoptionRecord{}).
			Where("id = ? AND status = ?", adoption.ID, string(domain.AdoptionPending)).
			Updates(map[string]any{"status": string(adoption.Status), "note": adoption.Note, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := getAdoption(tx, adoption.ID); err != nil {
				return err
			}
			return ports.ErrStaleState
		}
		current, err := getAdoption(tx, adoption.ID)
		if err != nil {
			return err
		}
		updates := map[string]any{"status": string(adoption.Status.PetStatusAfter()), "updated_at": now}
		if adoption.Status == domain.AdoptionApproved {
			updates["owner_id"] = current.UserID
		}
		if err := tx.Model(&petRecord{}).
			Where("id = ? AND status = ?", current.PetID, string(domain.StatusPending)).
			Updates(updates).Error; err != nil {
			return err
		}
		saved = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *Repository) GetAdoption(ctx context.Context, id int64) (*domain.Adoption, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return getAdoption(r.db.WithContext(ctx), id)
}

func (r *Repository) ListAdoptions(ctx context.Context, filter ports.AdoptionFilter) ([]*domain.Adoption, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx)
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PetID != 0 {
		query = query.Where("pet_id = ?", filter.PetID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var records []adoptionRecord
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Adoption, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pet repository not configured")
	}
	return nil
}

func getPet(db *gorm.DB, id int64) (*domain.Pet, error) {
	var record petRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func getAdoption(db *gorm.DB, id int64) (*domain.Adoption, error) {
	var record adoptionRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAdoptionNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func toPetRecord(p *domain.Pet) petRecord {
	return petRecord{
		ID:       p.ID,
		OwnerID:  p.OwnerID,
		Name:     p.Name,
		Species:  p.Species,
		Breed:    p.Breed,
		AgeYears: p.AgeYears,
		Status:   string(p.Status),
	}
}

func (r petRecord) toDomain() *domain.Pet {
	return &domain.Pet{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		Species:   r.Species,
		Breed:     r.Breed,
		AgeYears:  r.AgeYears,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toAdoptionRecord(a *domain.Adoption) adoptionRecord {
	return adoptionRecord{
		ID:     a.ID,
		PetID:  a.PetID,
		UserID: a.UserID,
		Status: string(a.Status),
		Note:   a.Note,
	}
}

func (r adoptionRecord) toDomain() *domain.Adoption {
	return &domain.Adoption{
		ID:        r.ID,
		PetID:     r.PetID,
		UserID:    r.UserID,
		Status:    domain.AdoptionStatus(r.Status),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
