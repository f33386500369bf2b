package auth

import (
	"context"
	"testing"

	"jobhub/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	byEmail map[string]user.User
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]user.User{}} }

func (m *memUsers) CreateUser(_ context.Context, u user.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	for k, u := range m.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			m.byEmail[k] = u
			return nil
		}
	}
	return user.ErrNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newMemUsers())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: " Siti@Example.com ", Password: "rahasia123", Role: "jobseeker"})
	require.NoError(t, err)
	assert.Equal(t, "siti@example.com", u.Email)
	assert.Equal(t, user.RoleJobseeker, u.Role)
	assert.Empty(t, u.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Email: "siti@example.com", Password: "rahasia123", Role: "RECRUITER"})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	got, err := svc.Login(ctx, LoginInput{Email: "SITI@example.com", Password: "rahasia123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "siti@example.com", Password: "salah"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_RejectsAdminAndBadInput(t *testing.T) {
	svc := NewService(newMemUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "root@example.com", Password: "rahasia123", Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	_, err = svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "rahasia123", Role: "JOBSEEKER"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "short", Role: "JOBSEEKER"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "rahasia123", Role: "HR"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
