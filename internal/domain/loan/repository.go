package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ListFilter narrows ListLoansByCustomerID. Nil fields are not applied.
type ListFilter struct {
	NumberOfInstallments *int
	IsPaid               *bool
}

// OverdueSummary aggregates unpaid installments whose due date has passed.
type OverdueSummary struct {
	Count  int
	Amount decimal.Decimal
}

type Repository interface {
	CreateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan, installments []Installment) error

	GetLoanByID(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	GetLoanForUpdateInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) (*Loan, error)

	ListLoansByCustomerID(ctx context.Context, customerID uuid.UUID, filter ListFilter) ([]Loan, error)

	GetInstallmentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]Installment, error)

	GetInstallmentsByLoanIDInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) ([]Installment, error)

	// MarkInstallmentPaidInTx only touches a row that is still unpaid.
	MarkInstallmentPaidInTx(ctx context.Context, tx pgx.Tx, installment *Installment) error

	MarkLoanPaidInTx(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) error

	GetOverdueSummary(ctx context.Context, asOf time.Time) (OverdueSummary, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
