package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

var (
	_ ports.SlotRepository        = (*SlotRepository)(nil)
	_ ports.AppointmentRepository = (*AppointmentRepository)(nil)
)

// SlotRepository keeps booked slots in a map keyed by (date, service, slot).
type SlotRepository struct {
	mu    sync.Mutex
	slots map[string]domain.BookedSlot
}

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{slots: map[string]domain.BookedSlot{}}
}

// Book checks and inserts under one lock.
func (r *SlotRepository) Book(_ context.Context, slot domain.BookedSlot) (*domain.BookedSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slot.Key()
	if _, taken := r.slots[key]; taken {
		return nil, ports.ErrSlotAlreadyBooked
	}
	slot.CreatedAt = time.Now().UTC()
	r.slots[key] = slot
	out := slot
	return &out, nil
}

func (r *SlotRepository) Booked(_ context.Context, date string, serviceType domain.ServiceType) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	labels := []string{}
	for _, slot := range r.slots {
		if slot.Date == date && slot.ServiceType == serviceType {
			labels = append(labels, slot.Slot)
		}
	}
	sort.Strings(labels)
	return labels, nil
}

func (r *SlotRepository) Release(_ context.Context, slot domain.BookedSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slot.Key()
	if _, ok := r.slots[key]; !ok {
		return ports.ErrSlotNotFound
	}
	delete(r.slots, key)
	return nil
}

// AppointmentRepository is an in-memory appointment store.
type AppointmentRepository struct {
	mu     sync.Mutex
	items  map[int64]*domain.Appointment
	nextID int64
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{items: map[int64]*domain.Appointment{}}
}

func (r *AppointmentRepository) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := appt.Clone()
	r.nextID++
	clone.ID = r.nextID
	now := time.Now().UTC()
	clone.CreatedAt, clone.UpdatedAt = now, now
	r.items[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return appt.Clone(), nil
}

func (r *AppointmentRepository) List(_ context.Context, filter ports.AppointmentFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*domain.Appointment, 0, len(r.items))
	for _, appt := range r.items {
		if filter.UserID != 0 && appt.UserID != filter.UserID {
			continue
		}
		if filter.Date != "" && appt.Date != filter.Date {
			continue
		}
		list = append(list, appt.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		if list[i].Time != list[j].Time {
			return domain.SlotIndex(list[i].Time) < domain.SlotIndex(list[j].Time)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *AppointmentRepository) UpdateStatus(_ context.Context, id int64, from, to domain.Status) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if appt.Status != from {
		return nil, ports.ErrStaleState
	}
	appt.Status = to
	appt.UpdatedAt = time.Now().UTC()
	return appt.Clone(), nil
}
