package ports

import (
	"context"
	"time"

	"github.com/petopia/petopia-server/internal/domains/users/domain"
)

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Role     string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Contact is the addressable identity of a user.
type Contact struct {
	Email string
	Name  string
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Contact(ctx context.Context, userID int64) (Contact, error)
}
