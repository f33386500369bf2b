package usecase

import (
	"context"

	"jobhub/internal/domain/user"
	ucuser "jobhub/internal/usecase/user"

	"github.com/google/uuid"
)

type AccountUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, in ucuser.ChangePasswordInput) error
}

type Account struct {
	svc *ucuser.Service
}

func NewAccountUsecase(users user.Repository) *Account {
	return &Account{svc: ucuser.NewService(users)}
}

func (u *Account) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetMe(ctx, userID)
}

func (u *Account) ChangePassword(ctx context.Context, userID uuid.UUID, in ucuser.ChangePasswordInput) error {
	return u.svc.ChangePassword(ctx, userID, in)
}
