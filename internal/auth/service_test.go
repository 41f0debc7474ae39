package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	users map[string]*User
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func newRepoWithUser(t *testing.T, email, password string, active bool) *mockRepo {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &mockRepo{users: map[string]*User{
		email: {ID: "owner-1", Email: email, PasswordHash: hash, IsActive: active},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "owner@example.com", "correct-horse", true))

	user, err := svc.Authenticate(context.Background(), "owner@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "owner@example.com", "correct-horse", true))

	_, err := svc.Authenticate(context.Background(), "owner@example.com", "battery-staple")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(&mockRepo{users: map[string]*User{}})

	_, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "owner@example.com", "correct-horse", false))

	_, err := svc.Authenticate(context.Background(), "owner@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
