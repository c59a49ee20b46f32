package batch_test

import (
	"context"
	"credit-engine/internal/batch"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, customerID uuid.UUID, principal, interestRate decimal.Decimal, numberOfInstallments int) (*loan.CreatedLoan, error) {
	args := m.Called(ctx, customerID, principal, interestRate, numberOfInstallments)
	if created, ok := args.Get(0).(*loan.CreatedLoan); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID uuid.UUID) (*loan.Loan, error) {
	args := m.Called(ctx, loanID)
	if l, ok := args.Get(0).(*loan.Loan); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListLoans(ctx context.Context, customerID uuid.UUID, filter loan.ListFilter) ([]loan.Loan, error) {
	args := m.Called(ctx, customerID, filter)
	if loans, ok := args.Get(0).([]loan.Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]loan.Installment, error) {
	args := m.Called(ctx, loanID)
	if installments, ok := args.Get(0).([]loan.Installment); ok {
		return installments, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) PayInstallments(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal) (*loan.Settlement, error) {
	args := m.Called(ctx, loanID, amount)
	if s, ok := args.Get(0).(*loan.Settlement); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLoanService) OverdueReport(ctx context.Context) (loan.OverdueSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(loan.OverdueSummary), args.Error(1)
}

func TestOverdueReportJobRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("publishes overdue gauges", func(t *testing.T) {
		svc := new(MockLoanService)
		job := batch.NewOverdueReportJob(svc, logger)
		svc.On("OverdueReport", mock.Anything).Return(loan.OverdueSummary{
			Count:  4,
			Amount: decimal.RequireFromString("812.40"),
		}, nil)

		err := job.Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, float64(4), testutil.ToFloat64(monitoring.Business.OverdueInstallments))
		assert.Equal(t, 812.4, testutil.ToFloat64(monitoring.Business.OverdueAmount))
		svc.AssertExpectations(t)
	})

	t.Run("resets gauges when nothing is overdue", func(t *testing.T) {
		svc := new(MockLoanService)
		job := batch.NewOverdueReportJob(svc, logger)
		svc.On("OverdueReport", mock.Anything).Return(loan.OverdueSummary{Amount: decimal.Zero}, nil)

		err := job.Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, float64(0), testutil.ToFloat64(monitoring.Business.OverdueInstallments))
		assert.Equal(t, float64(0), testutil.ToFloat64(monitoring.Business.OverdueAmount))
	})

	t.Run("returns error when the report fails", func(t *testing.T) {
		svc := new(MockLoanService)
		job := batch.NewOverdueReportJob(svc, logger)
		monitoring.SetOverdue(7, decimal.RequireFromString("10"))
		svc.On("OverdueReport", mock.Anything).Return(loan.OverdueSummary{}, errors.New("db down"))

		err := job.Run(context.Background())

		assert.ErrorContains(t, err, "failed to summarize overdue installments")
		assert.Equal(t, float64(7), testutil.ToFloat64(monitoring.Business.OverdueInstallments))
	})

	t.Run("panics on nil dependencies", func(t *testing.T) {
		assert.Panics(t, func() { batch.NewOverdueReportJob(nil, logger) })
	})
}
