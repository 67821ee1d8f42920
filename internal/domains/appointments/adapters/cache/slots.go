// Package cache fronts slot availability reads with Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
	"github.com/petopia/petopia-server/internal/domains/appointments/ports"
)

var _ ports.SlotRepository = (*Slots)(nil)

const defaultTTL = 30 * time.Second

// Store is the subset of the go-redis client used here.
type Store interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
}

// Slots caches Booked per (date, service). Entries are keyed by a generation counter that
// every write bumps, so a fill computed before a write lands under a generation nobody reads.
// Booking correctness never depends on the cache.
type Slots struct {
	inner  ports.SlotRepository
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Slots)

func WithTTL(ttl time.Duration) Option {
	return func(s *Slots) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Slots) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSlots(inner ports.SlotRepository, store Store, opts ...Option) *Slots {
	s := &Slots{inner: inner, store: store, ttl: defaultTTL, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Slots) Book(ctx context.Context, slot domain.BookedSlot) (*domain.BookedSlot, error) {
	booked, err := s.inner.Book(ctx, slot)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, slot.Date, slot.ServiceType)
	return booked, nil
}

func (s *Slots) Booked(ctx context.Context, date string, serviceType domain.ServiceType) ([]string, error) {
	gen, err := s.generation(ctx, date, serviceType)
	if err != nil {
		s.logger.WarnContext(ctx, "slot cache read failed", slog.String("cache.key", GenerationKey(date, serviceType)), slog.String("error", err.Error()))
		return s.inner.Booked(ctx, date, serviceType)
	}
	key := Key(date, serviceType, gen)
	raw, err := s.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var labels []string
		if jsonErr := json.Unmarshal(raw, &labels); jsonErr == nil {
			return labels, nil
		}
		s.logger.WarnContext(ctx, "discarding unreadable slot cache entry", slog.String("cache.key", key))
	case !errors.Is(err, goredis.Nil):
		s.logger.WarnContext(ctx, "slot cache read failed", slog.String("cache.key", key), slog.String("error", err.Error()))
	}

	labels, err := s.inner.Booked(ctx, date, serviceType)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(labels); err == nil {
		if err := s.store.Set(ctx, key, encoded, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "slot cache write failed", slog.String("cache.key", key), slog.String("error", err.Error()))
		}
	}
	return labels, nil
}

func (s *Slots) Release(ctx context.Context, slot domain.BookedSlot) error {
	if err := s.inner.Release(ctx, slot); err != nil {
		return err
	}
	s.invalidate(ctx, slot.Date, slot.ServiceType)
	return nil
}

// invalidate bumps the generation and drops the entry it replaces.
func (s *Slots) invalidate(ctx context.Context, date string, serviceType domain.ServiceType) {
	genKey := GenerationKey(date, serviceType)
	gen, err := s.store.Incr(ctx, genKey).Result()
	if err != nil {
		s.logger.WarnContext(ctx, "slot cache invalidation failed", slog.String("cache.key", genKey), slog.String("error", err.Error()))
		return
	}
	_ = s.store.Del(ctx, Key(date, serviceType, gen-1)).Err()
}

func (s *Slots) generation(ctx context.Context, date string, serviceType domain.ServiceType) (int64, error) {
	gen, err := s.store.Get(ctx, GenerationKey(date, serviceType)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GenerationKey names the write counter for one day and service.
func GenerationKey(date string, serviceType domain.ServiceType) string {
	return fmt.Sprintf("petopia:slots:%s:%s:gen", date, serviceType)
}

// Key names the cache entry for one day and service at a generation.
func Key(date string, serviceType domain.ServiceType, gen int64) string {
	return fmt.Sprintf("petopia:slots:%s:%s:v%d", date, serviceType, gen)
}
