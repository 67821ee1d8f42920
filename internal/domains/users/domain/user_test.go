package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_HashesPassword(t *testing.T) {
	user, err := NewUser(" alice ", "alice@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
	assert.True(t, user.CheckPassword("s3cret!"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("", "a@b.c", "s3cret!")
	require.ErrorIs(t, err, ErrEmptyUsername)
	_, err = NewUser("bob", "bob.example.com", "s3cret!")
	require.ErrorIs(t, err, ErrInvalidEmail)
	_, err = NewUser("bob", "bob@example.com", "abc")
	require.ErrorIs(t, err, ErrWeakPassword)
	_, err = NewUser("bob", "bob@example.com", "   ")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)
	role, err = ParseRole("Staff")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, role)
	_, err = ParseRole("root")
	require.ErrorIs(t, err, ErrInvalidRole)
}
