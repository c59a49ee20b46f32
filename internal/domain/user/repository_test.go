package user

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) Save(ctx context.Context, u *AppUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByUsername(ctx context.Context, username string) (*AppUser, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*AppUser); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
