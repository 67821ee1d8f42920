package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petopia/petopia-server/internal/domains/appointments/adapters/memory"
	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	down   bool
}

func newFakeStore() *fakeStore { return &fakeStore{values: map[string]string{}} }

func (f *fakeStore) Get(_ context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewStatusResult("", errors.New("connection refused"))
	}
	f.values[key] = string(value.([]byte))
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewIntResult(0, errors.New("connection refused"))
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeStore) Incr(_ context.Context, key string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return goredis.NewIntResult(0, errors.New("connection refused"))
	}
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return goredis.NewIntResult(n, nil)
}

// racingSlots runs onRead between the database read and the cache fill.
type racingSlots struct {
	ports.SlotRepository
	onRead func()
}

func (r *racingSlots) Booked(ctx context.Context, date string, serviceType domain.ServiceType) ([]string, error) {
	labels, err := r.SlotRepository.Booked(ctx, date, serviceType)
	if hook := r.onRead; hook != nil {
		r.onRead = nil
		hook()
	}
	return labels, err
}

func slot(t *testing.T, label string) domain.BookedSlot {
	t.Helper()
	s, err := domain.NewBookedSlot("2026-06-01", "Grooming", label)
	require.NoError(t, err)
	return *s
}

func TestSlots_FillsAndInvalidates(t *testing.T) {
	store := newFakeStore()
	cached := NewSlots(memory.NewSlotRepository(), store)
	ctx := context.Background()

	labels, err := cached.Booked(ctx, "2026-06-01", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Empty(t, labels)
	assert.Equal(t, "[]", store.values[Key("2026-06-01", domain.ServiceGrooming, 0)])

	_, err = cached.Book(ctx, slot(t, "09:00 AM-09:30 AM"))
	require.NoError(t, err)
	assert.NotContains(t, store.values, Key("2026-06-01", domain.ServiceGrooming, 0))
	assert.Equal(t, "1", store.values[GenerationKey("2026-06-01", domain.ServiceGrooming)])

	labels, err = cached.Booked(ctx, "2026-06-01", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM-09:30 AM"}, labels)
	assert.Equal(t, `["09:00 AM-09:30 AM"]`, store.values[Key("2026-06-01", domain.ServiceGrooming, 1)])

	require.NoError(t, cached.Release(ctx, slot(t, "09:00 AM-09:30 AM")))
	assert.NotContains(t, store.values, Key("2026-06-01", domain.ServiceGrooming, 1))
}

func TestSlots_FillRacingABookingIsNotServed(t *testing.T) {
	store := newFakeStore()
	inner := &racingSlots{SlotRepository: memory.NewSlotRepository()}
	cached := NewSlots(inner, store)
	ctx := context.Background()

	inner.onRead = func() {
		_, err := cached.Book(ctx, slot(t, "09:00 AM-09:30 AM"))
		require.NoError(t, err)
	}
	stale, err := cached.Booked(ctx, "2026-06-01", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Empty(t, stale)

	labels, err := cached.Booked(ctx, "2026-06-01", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00 AM-09:30 AM"}, labels)
}

func TestSlots_ServesFromCache(t *testing.T) {
	store := newFakeStore()
	store.values[GenerationKey("2026-06-01", domain.ServiceGrooming)] = "3"
	store.values[Key("2026-06-01", domain.ServiceGrooming, 3)] = `["10:00 AM-10:30 AM"]`
	cached := NewSlots(memory.NewSlotRepository(), store)

	labels, err := cached.Booked(context.Background(), "2026-06-01", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM-10:30 AM"}, labels)
}

func TestSlots_RedisOutageFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.down = true
	cached := NewSlots(memory.NewSlotRepository(), store)
	ctx := context.Background()

	_, err := cached.Book(ctx, slot(t, "02:00 PM-02:30 PM"))
	require.NoError(t, err)
	_, err = cached.Book(ctx, slot(t, "02:00 PM-02:30 PM"))
	require.ErrorIs(t, err, ports.ErrSlotAlreadyBooked)

	labels, err := cached.Booked(ctx, "2026-06-01", domain.ServiceGrooming)
	require.NoError(t, err)
	assert.Equal(t, []string{"02:00 PM-02:30 PM"}, labels)
}
