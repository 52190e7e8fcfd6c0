package service

import (
	"testing"

	"spendlog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	users := newTestUserService(t)

	user, err := users.Register("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret", user.PasswordHash, "hash must not be the plaintext")

	authed, err := users.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := newTestUserService(t)

	first, err := users.Register("alice", "secret")
	require.NoError(t, err)

	_, err = users.Register("alice", "other")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// Original credential still works.
	authed, err := users.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, first.ID, authed.ID)
}

func TestRegister_Validation(t *testing.T) {
	users := newTestUserService(t)

	var verr *ValidationError
	_, err := users.Register("   ", "secret")
	assert.ErrorAs(t, err, &verr)

	_, err = users.Register("alice", "")
	assert.ErrorAs(t, err, &verr)
}

func TestAuthenticate_IndistinguishableFailures(t *testing.T) {
	users := newTestUserService(t)

	_, err := users.Register("alice", "secret")
	require.NoError(t, err)

	_, wrongPassword := users.Authenticate("alice", "nope")
	_, unknownUser := users.Authenticate("mallory", "nope")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error(),
		"unknown user and wrong password must be indistinguishable")
}
