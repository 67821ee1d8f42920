package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

var _ ports.SlotRepository = (*Slots)(nil)

// Slots persists booked slots; the unique index on (date, service, slot) is the only booking guard.
type Slots struct {
	db *gorm.DB
}

func NewSlots(db *gorm.DB) *Slots {
	if db != nil {
		_ = db.AutoMigrate(&slotRecord{})
	}
	return &Slots{db: db}
}

type slotRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	SlotDate    string    `gorm:"column:slot_date;type:varchar(10);uniqueIndex:ux_booked_slots_triple,priority:1"`
	ServiceType string    `gorm:"column:service_type;type:varchar(32);uniqueIndex:ux_booked_slots_triple,priority:2"`
	Slot        string    `gorm:"column:slot;type:varchar(32);uniqueIndex:ux_booked_slots_triple,priority:3"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (slotRecord) TableName() string { return "booked_slots" }

// Book inserts with ON CONFLICT DO NOTHING; zero affected rows means someone else holds the slot.
func (s *Slots) Book(ctx context.Context, slot domain.BookedSlot) (*domain.BookedSlot, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	record := slotRecord{
		SlotDate:    slot.Date,
		ServiceType: string(slot.ServiceType),
		Slot:        slot.Slot,
		CreatedAt:   time.Now().UTC(),
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_date"}, {Name: "service_type"}, {Name: "slot"}},
			DoNothing: true,
		}).
		Create(&record)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ports.ErrSlotAlreadyBooked
	}
	booked := record.toDomain()
	return &booked, nil
}

func (s *Slots) Booked(ctx context.Context, date string, serviceType domain.ServiceType) ([]string, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	labels := []string{}
	err := s.db.WithContext(ctx).Model(&slotRecord{}).
		Where("slot_date = ? AND service_type = ?", date, string(serviceType)).
		Order("slot").
		Pluck("slot", &labels).Error
	if err != nil {
		return nil, err
	}
	return labels, nil
}

func (s *Slots) Release(ctx context.Context, slot domain.BookedSlot) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("slot_date = ? AND service_type = ? AND slot = ?", slot.Date, string(slot.ServiceType), slot.Slot).
		Delete(&slotRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrSlotNotFound
	}
	return nil
}

func (s *Slots) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres slot repository not configured")
	}
	return nil
}

func (r slotRecord) toDomain() domain.BookedSlot {
	return domain.BookedSlot{
		Slot:        r.Slot,
		ServiceType: domain.ServiceType(r.ServiceType),
		Date:        r.SlotDate,
		CreatedAt:   r.CreatedAt,
	}
}
