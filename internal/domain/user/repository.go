package user

import (
	"context"
	"credit-engine/internal/pkg/apperrors"
	"fmt"
)

var (
	ErrUserNotFound = fmt.Errorf("%w: user not found", apperrors.ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)

	ErrUsernameTaken = fmt.Errorf("%w: username already taken", apperrors.ErrAlreadyExists)
)

type Repository interface {
	Save(ctx context.Context, u *AppUser) error

	FindByUsername(ctx context.Context, username string) (*AppUser, error)
}
