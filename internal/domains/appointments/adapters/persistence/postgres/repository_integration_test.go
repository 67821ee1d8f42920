//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
	"github.com/petopia/petopia-server/internal/platform/migrations"
	"github.com/petopia/petopia-server/internal/platform/postgres/pgtest"
)

func TestPostgres_SlotBookingRacesOnUniqueIndex(t *testing.T) {
	slots := NewSlots(pgtest.Open(t))
	slot := mustSlot(t, "2026-05-04", "Grooming", "09:00 AM-09:30 AM")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := slots.Book(context.Background(), slot)
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ports.ErrSlotAlreadyBooked)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)

	booked, err := slots.Booked(context.Background(), "2026-05-04", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM-09:30 AM"}, booked)
}

func TestPostgres_AppointmentStatusCheckConstraint(t *testing.T) {
	db := pgtest.Open(t)
	repo := NewAppointments(db)
	require.NoError(t, migrations.Run(db))
	ctx := context.Background()

	appt, err := domain.NewAppointment(1, 2, "Medical", domain.Details{MedicalType: "Vaccination"}, "2026-05-06", "04:30 PM-05:00 PM")
	require.NoError(t, err)
	saved, err := repo.Create(ctx, appt)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, saved.ID, domain.StatusBooked, domain.Status("Lost"))
	require.Error(t, err)

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, got.Status)
}
