//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	petspostgres "github.com/petopia/petopia-server/internal/domains/pets/adapters/persistence/postgres"
	"github.com/petopia/petopia-server/internal/domains/pets/domain"
	"github.com/petopia/petopia-server/internal/domains/pets/ports"
	"github.com/petopia/petopia-server/internal/platform/migrations"
	"github.com/petopia/petopia-server/internal/platform/postgres/pgtest"
)

func TestPostgres_ConcurrentAdoptionRequestsOneWinner(t *testing.T) {
	db := pgtest.Open(t)

	repo := petspostgres.NewRepository(db)
	require.NoError(t, migrations.Run(db))
	ctx := context.Background()

	pet, err := domain.NewPet(0, "Rex", "dog", "", 3)
	require.NoError(t, err)
	pet, err = repo.Create(ctx, pet)
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for userID := int64(1); userID <= 10; userID++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			request, err := domain.RequestAdoption(pet, userID, "")
			if !assert.NoError(t, err) {
				return
			}
			_, err = repo.OpenAdoption(ctx, request)
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ports.ErrStaleState)
		}(userID)
	}
	wg.Wait()
	assert.Equal(t, 1, winners)

	pending, err := repo.ListAdoptions(ctx, ports.AdoptionFilter{PetID: pet.ID})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
