package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/petopia/petopia-server/internal/domains/users/domain"
	"github.com/petopia/petopia-server/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user store.
type Repository struct {
	mu         sync.RWMutex
	items      map[int64]*domain.User
	byUsername map[string]int64
	nextID     int64
}

func NewRepository() *Repository {
	return &Repository{items: map[int64]*domain.User{}, byUsername: map[string]int64{}}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Username)
	if _, taken := r.byUsername[key]; taken {
		return nil, ports.ErrUsernameTaken
	}
	clone := *user
	r.nextID++
	clone.ID = r.nextID
	r.items[clone.ID] = &clone
	r.byUsername[key] = clone.ID
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := *r.items[id]
	return &out, nil
}
