package application

import (
	"context"
	"errors"
	"strings"

	"github.com/petopia/petopia-server/internal/domains/users/domain"
	"github.com/petopia/petopia-server/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo   ports.Repository
	tokens ports.TokenIssuer
}

func NewService(repo ports.Repository, tokens ports.TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, mapError(err)
	}
	user.Role = role
	user.UpdateProfile(input.FullName, input.Phone)
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login checks the bcrypt hash and issues a signed token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not configured")
	}
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Contact resolves the email and display name used for customer notifications.
func (s *Service) Contact(ctx context.Context, userID int64) (ports.Contact, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return ports.Contact{}, err
	}
	return ports.Contact{Email: user.Email, Name: user.DisplayName()}, nil
}

var _ ports.Service = (*Service)(nil)
