package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

type TxMock struct {
	pgx.Tx
}

var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) CreateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan, installments []Installment) error {
	args := m.Called(ctx, tx, loan, installments)
	return args.Error(0)
}

func (m *MockRepository) GetLoanByID(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) GetLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) (*Loan, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Loan), args.Error(1)
}

func (m *MockRepository) ListLoansByCustomerID(ctx context.Context, customerID uuid.UUID, filter ListFilter) ([]Loan, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Loan), args.Error(1)
}

func (m *MockRepository) GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Installment), args.Error(1)
}

func (m *MockRepository) GetInstallmentsByLoanIDInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) ([]Installment, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Installment), args.Error(1)
}

func (m *MockRepository) MarkInstallmentPaidInTx(ctx context.Context, tx pgx.Tx, installment *Installment) error {
	args := m.Called(ctx, tx, installment)
	return args.Error(0)
}

func (m *MockRepository) MarkLoanPaidInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) error {
	args := m.Called(ctx, tx, loanID)
	return args.Error(0)
}

func (m *MockRepository) GetOverdueSummary(ctx context.Context, asOf time.Time) (OverdueSummary, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(OverdueSummary), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRepository) CommitTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
