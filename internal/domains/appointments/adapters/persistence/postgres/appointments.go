package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

var _ ports.AppointmentRepository = (*Appointments)(nil)

// Appointments persists appointments using GORM.
type Appointments struct {
	db *gorm.DB
}

func NewAppointments(db *gorm.DB) *Appointments {
	if db != nil {
		_ = db.AutoMigrate(&appointmentRecord{})
	}
	return &Appointments{db: db}
}

type appointmentRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	PetID         int64           `gorm:"column:pet_id"`
	UserID        int64           `gorm:"column:user_id;index"`
	ServiceType   string          `gorm:"column:service_type;type:varchar(32)"`
	GroomingType  string          `gorm:"column:grooming_type"`
	TrainingType  string          `gorm:"column:training_type"`
	MedicalType   string          `gorm:"column:medical_type"`
	BoardingStart string          `gorm:"column:boarding_start;type:varchar(10)"`
	BoardingEnd   string          `gorm:"column:boarding_end;type:varchar(10)"`
	Date          string          `gorm:"column:appointment_date;type:varchar(10);index"`
	Time          string          `gorm:"column:appointment_time;type:varchar(32)"`
	Status        string          `gorm:"column:status;type:varchar(16)"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (appointmentRecord) TableName() string { return "appointments" }

func (r *Appointments) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, errors.New("appointment is nil")
	}
	record := toRecord(appt)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Appointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record appointmentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List orders by day; within a day labels compare by clock time, which string order does not give across noon.
func (r *Appointments) List(ctx context.Context, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx)
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Date != "" {
		query = query.Where("appointment_date = ?", filter.Date)
	}
	var records []appointmentRecord
	if err := query.Order("appointment_date, id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.Appointment, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	sortByDateAndSlot(list)
	return list, nil
}

// UpdateStatus is a compare-and-set on the current status.
func (r *Appointments) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (*domain.Appointment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	res := db.Model(&appointmentRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&appointmentRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrStaleState
	}
	return r.GetByID(ctx, id)
}

func (r *Appointments) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres appointment repository not configured")
	}
	return nil
}

func toRecord(appt *domain.Appointment) appointmentRecord {
	return appointmentRecord{
		ID:            appt.ID,
		PetID:         appt.PetID,
		UserID:        appt.UserID,
		ServiceType:   string(appt.ServiceType),
		GroomingType:  appt.Details.GroomingType,
		TrainingType:  appt.Details.TrainingType,
		MedicalType:   appt.Details.MedicalType,
		BoardingStart: appt.Details.BoardingStart,
		BoardingEnd:   appt.Details.BoardingEnd,
		Date:          appt.Date,
		Time:          appt.Time,
		Status:        string(appt.Status),
		Amount:        appt.Amount,
	}
}

func (r appointmentRecord) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:          r.ID,
		PetID:       r.PetID,
		UserID:      r.UserID,
		ServiceType: domain.ServiceType(r.ServiceType),
		Details: domain.Details{
			GroomingType:  r.GroomingType,
			TrainingType:  r.TrainingType,
			MedicalType:   r.MedicalType,
			BoardingStart: r.BoardingStart,
			BoardingEnd:   r.BoardingEnd,
		},
		Date:      r.Date,
		Time:      r.Time,
		Status:    domain.Status(r.Status),
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func sortByDateAndSlot(list []*domain.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		return domain.SlotIndex(list[i].Time) < domain.SlotIndex(list[j].Time)
	})
}
