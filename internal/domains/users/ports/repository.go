package ports

import (
	"context"
	"errors"

	"github.com/petopia/petopia-server/internal/domains/users/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already registered")
)

type Repository interface {
	// Create inserts a new user; a duplicate username returns ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
