package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, customer)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID uuid.UUID) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *Customer); ok {
		r0 = rf(ctx, customerID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindByIDForUpdateInTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) (*Customer, error) {
	ret := _m.Called(ctx, tx, customerID)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, pgx.Tx, uuid.UUID) *Customer); ok {
		r0 = rf(ctx, tx, customerID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) UpdateUsedCreditInTx(ctx context.Context, tx pgx.Tx, customer *Customer) error {
	ret := _m.Called(ctx, tx, customer)
	return ret.Error(0)
}
