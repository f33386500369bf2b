package user

import (
	"context"

	"jobhub/internal/domain/user"
	ucauth "jobhub/internal/usecase/auth"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrWrongPassword   = errors.New("current password is incorrect")
	ErrAccountNotFound = errors.New("account not found")
	ErrInternal        = errors.New("internal error")
)

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// Service serves the caller's own account.
type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrAccountNotFound
		}
		return user.User{}, errors.Mark(err, ErrInternal)
	}
	usr.PasswordHash = ""
	return usr, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	if !ucauth.IsValidPassword(in.NewPassword) {
		return ErrInvalidInput
	}

	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrAccountNotFound
		}
		return errors.Mark(err, ErrInternal)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := ucauth.HashPassword(in.NewPassword)
	if err != nil {
		return errors.Mark(err, ErrInternal)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.Mark(err, ErrInternal)
	}
	return nil
}
