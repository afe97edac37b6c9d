package service

import (
	"testing"

	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, fx *fixture, username, role string) *model.User {
	t.Helper()
	user, err := fx.auth.Register(&RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		FullName: "Test User",
		Role:     role,
	}, "tester")
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	fx := newFixture(t)
	registerUser(t, fx, "alice", "")

	resp, err := fx.auth.Login("alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, model.RoleUser, resp.User.Role)

	// Login stamps last_login_at in storage.
	reloaded, err := fx.auth.CurrentUser(resp.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)

	validated, err := fx.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", validated.Username)
}

func TestRegisterRejectsDuplicatesAndBadRoles(t *testing.T) {
	fx := newFixture(t)
	registerUser(t, fx, "alice", "MANAGER")

	_, err := fx.auth.Register(&RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
		FullName: "Someone Else",
	}, "tester")
	requireKind(t, err, apperr.KindDuplicate)

	_, err = fx.auth.Register(&RegisterRequest{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "secret123",
		FullName: "Someone Else",
	}, "tester")
	requireKind(t, err, apperr.KindDuplicate)

	_, err = fx.auth.Register(&RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret123",
		FullName: "Carol",
		Role:     "SUPERVISOR",
	}, "tester")
	requireKind(t, err, apperr.KindValidation)

	// Password below minimum length.
	_, err = fx.auth.Register(&RegisterRequest{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "short",
		FullName: "Dave",
	}, "tester")
	requireKind(t, err, apperr.KindValidation)
}

func TestLoginFailures(t *testing.T) {
	fx := newFixture(t)
	user := registerUser(t, fx, "alice", "")

	_, err := fx.auth.Login("alice", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = fx.auth.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, fx.db.Model(user).Update("status", model.UserLocked).Error)
	_, err = fx.auth.Login("alice", "secret123")
	assert.ErrorIs(t, err, ErrUserLocked)

	require.NoError(t, fx.db.Model(user).Update("status", model.UserInactive).Error)
	_, err = fx.auth.Login("alice", "secret123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestChangePassword(t *testing.T) {
	fx := newFixture(t)
	registerUser(t, fx, "alice", "")

	err := fx.auth.ChangePassword("alice", "wrongpass", "newsecret1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, fx.auth.ChangePassword("alice", "secret123", "newsecret1"))

	_, err = fx.auth.Login("alice", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = fx.auth.Login("alice", "newsecret1")
	require.NoError(t, err)
}

func TestValidateTokenInactiveUser(t *testing.T) {
	fx := newFixture(t)
	user := registerUser(t, fx, "alice", "")

	resp, err := fx.auth.Login("alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, fx.db.Model(user).Update("status", model.UserInactive).Error)

	_, err = fx.auth.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestCurrentUser(t *testing.T) {
	fx := newFixture(t)
	user := registerUser(t, fx, "alice", "ADMIN")

	got, err := fx.auth.CurrentUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Equal(t, "alice", got.Username)
}
