package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petopia/petopia-server/internal/domains/users/adapters/memory"
	"github.com/petopia/petopia-server/internal/domains/users/domain"
	"github.com/petopia/petopia-server/internal/domains/users/ports"
)

type fakeIssuer struct {
	issued []int64
	err    error
}

func (f *fakeIssuer) Issue(user *domain.User) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.issued = append(f.issued, user.ID)
	return "token-" + user.Username, time.Now().Add(time.Hour), nil
}

func register(t *testing.T, svc *Service, username string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret!",
		FullName: "Alice Doe",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	issuer := &fakeIssuer{}
	svc := NewService(memory.NewRepository(), issuer)

	user := register(t, svc, "alice")
	assert.Equal(t, domain.RoleCustomer, user.Role)

	session, err := svc.Login(context.Background(), "alice", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "token-alice", session.Token)
	assert.Equal(t, user.ID, session.User.ID)
	assert.Equal(t, []int64{user.ID}, issuer.issued)
}

func TestRegister_Rejections(t *testing.T) {
	svc := NewService(memory.NewRepository(), &fakeIssuer{})
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "a@b.c", Password: "s3cret!"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Email: "nope", Password: "s3cret!"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Email: "b@c.d", Password: "s3cret!", Role: "root"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	issuer := &fakeIssuer{}
	svc := NewService(memory.NewRepository(), issuer)
	register(t, svc, "alice")

	_, err := svc.Login(context.Background(), "alice", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Login(context.Background(), "missing", "s3cret!")
	require.ErrorIs(t, err, ErrAuthentication)
	_, err = svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, issuer.issued)
}

func TestLogin_IssuerFailure(t *testing.T) {
	svc := NewService(memory.NewRepository(), &fakeIssuer{err: errors.New("hsm offline")})
	register(t, svc, "alice")

	_, err := svc.Login(context.Background(), "alice", "s3cret!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthentication)
}

func TestContact(t *testing.T) {
	svc := NewService(memory.NewRepository(), &fakeIssuer{})
	user := register(t, svc, "alice")

	contact, err := svc.Contact(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, ports.Contact{Email: "alice@example.com", Name: "Alice Doe"}, contact)

	_, err = svc.Contact(context.Background(), 99)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
