//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petopia/petopia-server/internal/domains/users/domain"
	"github.com/petopia/petopia-server/internal/domains/users/ports"
	"github.com/petopia/petopia-server/internal/platform/postgres/pgtest"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	db := pgtest.Open(t)

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("alice", "alice@example.com", "s3cret!")
	require.NoError(t, err)
	saved, err := repo.Create(ctx, user)
	require.NoError(t, err)

	fetched, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "alice@example.com", fetched.Email)
}

func TestPostgres_ConcurrentRegistrationOneWinner(t *testing.T) {
	db := pgtest.Open(t)

	repo := NewRepository(db)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := domain.NewUser("carol", fmt.Sprintf("carol%d@example.com", i), "s3cret!")
			if !assert.NoError(t, err) {
				return
			}
			_, err = repo.Create(context.Background(), user)
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ports.ErrUsernameTaken)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}
