package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)

func TestNewUser(t *testing.T) {
	u, err := NewUser("u-1", " Lan@Example.COM ", "secret1", " Lan Nguyen ", now)
	require.NoError(t, err)
	assert.Equal(t, "lan@example.com", u.Email)
	assert.Equal(t, "Lan Nguyen", u.FullName)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.True(t, u.Active())
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
	require.NoError(t, u.Validate())
}

func TestNewUser_Invalid(t *testing.T) {
	_, err := NewUser("u-1", "not-an-email", "secret1", "", now)
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("u-1", "Lan <lan@example.com>", "secret1", "", now)
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("u-1", "lan@example.com", "12345", "", now)
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = NewUser("u-1", "lan@example.com", "   ", "", now)
	require.ErrorIs(t, err, ErrEmptyPassword)

	_, err = NewUser("u-1", "lan@example.com", strings.Repeat("x", MaxPasswordLength+1), "", now)
	require.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = NewUser("u-1", "lan@example.com", strings.Repeat("x", MaxPasswordLength), "", now)
	require.NoError(t, err)
}

func TestParseRoleAndStatus(t *testing.T) {
	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	_, err = ParseRole("root")
	require.ErrorIs(t, err, ErrInvalidRole)

	status, err := ParseStatus("INACTIVE")
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, status)
	_, err = ParseStatus("banned")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestResetTokenExpired(t *testing.T) {
	tok := ResetToken{ExpiresAt: now}
	assert.True(t, tok.Expired(now))
	assert.False(t, tok.Expired(now.Add(-time.Second)))
}
