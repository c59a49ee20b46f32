package loan

import (
	"context"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
	"credit-engine/internal/pkg/clock"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatedLoan is a freshly issued loan together with its repayment schedule.
type CreatedLoan struct {
	Loan          *Loan
	Installments  []Installment
	TotalToBePaid decimal.Decimal
	FirstDueDate  time.Time
}

type LoanService interface {
	CreateLoan(ctx context.Context, customerID uuid.UUID, principal, interestRate decimal.Decimal, numberOfInstallments int) (*CreatedLoan, error)

	GetLoan(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	ListLoans(ctx context.Context, customerID uuid.UUID, filter ListFilter) ([]Loan, error)

	ListInstallments(ctx context.Context, loanID uuid.UUID) ([]Installment, error)

	PayInstallments(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal) (*Settlement, error)

	// OverdueReport summarizes unpaid installments due before today. It never writes.
	OverdueReport(ctx context.Context) (OverdueSummary, error)
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	clock           clock.Clock
	logger          *slog.Logger
}

func NewLoanService(r Repository, cs customer.CustomerService, pub event.EventPublisher, clk clock.Clock, logger *slog.Logger) LoanService {
	if pub == nil {
		pub = event.NoopPublisher{}
	}
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		pub:             pub,
		clock:           clk,
		logger:          logger.With(slog.String("component", "loanService")),
	}
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, customerID uuid.UUID, principal, interestRate decimal.Decimal, numberOfInstallments int) (created *CreatedLoan, err error) {
	logCtx := s.logger.With(slog.String("customerID", customerID.String()))
	logCtx.InfoContext(ctx, "Creating new loan",
		slog.String("principal", principal.String()),
		slog.String("interestRate", interestRate.String()),
		slog.Int("numberOfInstallments", numberOfInstallments))

	option, err := ParseInstallmentOption(numberOfInstallments)
	if err != nil {
		logCtx.WarnContext(ctx, "Invalid number of installments", slog.Any("error", err))
		monitoring.RecordLoanCreated("failure_validation")
		return nil, err
	}

	loan, err := NewLoan(customerID, principal, interestRate, option, s.clock.Today())
	if err != nil {
		logCtx.WarnContext(ctx, "Failed to create new loan object", slog.Any("error", err))
		monitoring.RecordLoanCreated("failure_validation")
		return nil, err
	}

	installments, err := GenerateInstallments(loan)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to generate installments", slog.Any("error", err))
		monitoring.RecordLoanCreated("failure_validation")
		return nil, fmt.Errorf("failed to generate installments: %w", err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		monitoring.RecordLoanCreated("failure_internal")
		return nil, fmt.Errorf("%w: could not begin transaction: %w", apperrors.ErrInternalServer, err)
	}

	defer func() {
		status := "success"
		switch {
		case errors.Is(err, customer.ErrInsufficientCreditLimit):
			status = "failure_credit_limit"
		case errors.Is(err, customer.ErrNotFound):
			status = "failure_customer_not_found"
		case err != nil:
			status = "failure_internal"
		}
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic occurred during loan creation", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			monitoring.RecordLoanCreated("failure_internal")
			panic(p)
		} else if err != nil {
			logCtx.WarnContext(ctx, "Rolling back loan creation", slog.Any("error", err))
			_ = s.repo.RollbackTx(ctx, tx)
		}
		monitoring.RecordLoanCreated(status)
	}()

	if _, err = s.customerService.ReserveCredit(ctx, tx, customerID, principal); err != nil {
		return nil, err
	}

	if err = s.repo.CreateLoanInTx(ctx, tx, loan, installments); err != nil {
		logCtx.ErrorContext(ctx, "Failed to save loan and installments", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save loan and installments: %w", apperrors.ErrInternalServer, err)
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		logCtx.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not commit transaction: %w", apperrors.ErrInternalServer, err)
	}

	created = &CreatedLoan{
		Loan:          loan,
		Installments:  installments,
		TotalToBePaid: loan.TotalToBePaid(),
		FirstDueDate:  loan.FirstPaymentDate(),
	}

	createdEvent := event.LoanCreatedEvent{
		LoanID:               loan.ID,
		CustomerID:           customerID,
		LoanAmount:           loan.LoanAmount,
		InterestRate:         loan.InterestRate,
		NumberOfInstallments: loan.NumberOfInstallments.Int(),
		TotalToBePaid:        created.TotalToBePaid,
		FirstPaymentDate:     created.FirstDueDate,
		Timestamp:            time.Now(),
	}
	if pubErr := s.pub.PublishLoanCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Loan created successfully", slog.String("loanID", loan.ID.String()))
	return created, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID uuid.UUID) (*Loan, error) {
	s.logger.InfoContext(ctx, "Getting loan details", slog.String("loanID", loanID.String()))
	loan, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.String("loanID", loanID.String()))
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", slog.String("loanID", loanID.String()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %s: %w", apperrors.ErrInternalServer, loanID, err)
	}
	return loan, nil
}

func (s *loanServiceImpl) ListLoans(ctx context.Context, customerID uuid.UUID, filter ListFilter) ([]Loan, error) {
	logCtx := s.logger.With(slog.String("customerID", customerID.String()))
	logCtx.InfoContext(ctx, "Listing loans for customer")

	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	loans, err := s.repo.ListLoansByCustomerID(ctx, customerID, filter)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to list loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for customer %s: %w", apperrors.ErrInternalServer, customerID, err)
	}
	return loans, nil
}

func (s *loanServiceImpl) ListInstallments(ctx context.Context, loanID uuid.UUID) ([]Installment, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	installments, err := s.repo.GetInstallmentsByLoanID(ctx, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get installments", slog.String("loanID", loanID.String()), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get installments for loan %s: %w", apperrors.ErrInternalServer, loanID, err)
	}
	return installments, nil
}

func (s *loanServiceImpl) PayInstallments(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal) (result *Settlement, err error) {
	logCtx := s.logger.With(slog.String("loanID", loanID.String()), slog.String("amount", amount.String()))
	logCtx.InfoContext(ctx, "Paying installments")

	if !amount.IsPositive() {
		logCtx.WarnContext(ctx, "Invalid payment amount")
		monitoring.RecordPayment("failure_amount")
		return nil, apperrors.NewFieldError(apperrors.ErrInvalidPaymentAmount, "amount", "payment amount must be greater than zero")
	}

	today := s.clock.Today()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		monitoring.RecordPayment("failure_internal")
		return nil, fmt.Errorf("%w: could not begin transaction: %w", apperrors.ErrInternalServer, err)
	}

	defer func() {
		status := "success"
		switch {
		case errors.Is(err, ErrLoanNotFound):
			status = "failure_not_found"
		case err != nil:
			status = "failure_internal"
		case result != nil && result.PaidCount == 0:
			status = "nothing_paid"
		}
		if p := recover(); p != nil {
			logCtx.ErrorContext(ctx, "Panic occurred during payment processing", slog.Any("panic", p))
			_ = s.repo.RollbackTx(ctx, tx)
			monitoring.RecordPayment("failure_internal")
			panic(p)
		} else if err != nil {
			logCtx.WarnContext(ctx, "Rolling back payment", slog.Any("error", err))
			_ = s.repo.RollbackTx(ctx, tx)
		}
		monitoring.RecordPayment(status)
	}()

	loan, err := s.repo.GetLoanForUpdateInTx(ctx, tx, loanID)
	if err != nil {
		if errors.Is(err, ErrLoanNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: could not lock loan %s: %w", apperrors.ErrInternalServer, loanID, err)
	}

	installments, err := s.repo.GetInstallmentsByLoanIDInTx(ctx, tx, loanID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load installments for loan %s: %w", apperrors.ErrInternalServer, loanID, err)
	}

	settlement, becamePaid := loan.Pay(installments, amount, today)

	for i := range settlement.Paid {
		if err = s.repo.MarkInstallmentPaidInTx(ctx, tx, &settlement.Paid[i]); err != nil {
			logCtx.ErrorContext(ctx, "Failed to mark installment paid",
				slog.String("installmentID", settlement.Paid[i].ID.String()), slog.Any("error", err))
			return nil, fmt.Errorf("%w: could not update installment: %w", apperrors.ErrInternalServer, err)
		}
	}

	if becamePaid {
		if err = s.repo.MarkLoanPaidInTx(ctx, tx, loanID); err != nil {
			logCtx.ErrorContext(ctx, "Failed to mark loan paid", slog.Any("error", err))
			return nil, fmt.Errorf("%w: could not update loan status to paid: %w", apperrors.ErrInternalServer, err)
		}
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		logCtx.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not commit transaction: %w", apperrors.ErrInternalServer, err)
	}
	result = &settlement

	for i, d := range settlement.Details {
		monitoring.RecordInstallmentPaid(adjustmentKind(d), d.PaidAmount.Sub(settlement.Paid[i].Amount))
	}
	s.publishPayment(ctx, logCtx, loan, settlement, becamePaid, today)

	logCtx.InfoContext(ctx, "Payment processed",
		slog.Int("paidCount", settlement.PaidCount),
		slog.String("totalSpent", settlement.TotalSpent.String()),
		slog.Bool("loanFullyPaid", settlement.LoanFullyPaid))
	return result, nil
}

func (s *loanServiceImpl) OverdueReport(ctx context.Context) (OverdueSummary, error) {
	summary, err := s.repo.GetOverdueSummary(ctx, s.clock.Today())
	if err != nil {
		return OverdueSummary{}, fmt.Errorf("%w: failed to summarize overdue installments: %w", apperrors.ErrInternalServer, err)
	}
	return summary, nil
}

func (s *loanServiceImpl) publishPayment(ctx context.Context, logCtx *slog.Logger, loan *Loan, settlement Settlement, becamePaid bool, today time.Time) {
	if settlement.PaidCount > 0 {
		paidEvent := event.InstallmentsPaidEvent{
			LoanID:           loan.ID,
			CustomerID:       loan.CustomerID,
			InstallmentsPaid: settlement.PaidCount,
			TotalSpent:       settlement.TotalSpent,
			PaymentDate:      today,
			Installments:     make([]event.PaidInstallment, 0, len(settlement.Details)),
			Timestamp:        time.Now(),
		}
		for _, d := range settlement.Details {
			paidEvent.Installments = append(paidEvent.Installments, event.PaidInstallment{
				InstallmentID: d.InstallmentID,
				PaidAmount:    d.PaidAmount,
				IsReward:      d.IsReward,
				IsPenalty:     d.IsPenalty,
			})
		}
		if pubErr := s.pub.PublishInstallmentsPaid(ctx, paidEvent); pubErr != nil {
			logCtx.ErrorContext(ctx, "Payment committed, but FAILED to publish event", slog.Any("error", pubErr))
		}
	}

	if becamePaid {
		paidOff := event.LoanPaidOffEvent{LoanID: loan.ID, CustomerID: loan.CustomerID, Timestamp: time.Now()}
		if pubErr := s.pub.PublishLoanPaidOff(ctx, paidOff); pubErr != nil {
			logCtx.ErrorContext(ctx, "Loan paid off, but FAILED to publish event", slog.Any("error", pubErr))
		}
	}
}

func adjustmentKind(d PaymentDetail) string {
	switch {
	case d.IsReward:
		return monitoring.KindReward
	case d.IsPenalty:
		return monitoring.KindPenalty
	default:
		return monitoring.KindOnTime
	}
}
