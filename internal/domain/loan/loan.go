package loan

import (
	"credit-engine/internal/pkg/apperrors"
	"credit-engine/internal/pkg/clock"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound = fmt.Errorf("%w: loan not found", apperrors.ErrNotFound)

	ErrInvalidInstallmentCount = errors.New("number of installments must be one of 6, 9, 12, 24")

	ErrInvalidInterestRate = errors.New("interest rate must be between 0.1 and 0.5")

	ErrInvalidLoanAmount = errors.New("loan amount must be greater than zero")

	ErrLoanAmountPrecision = errors.New("loan amount cannot have more than 2 decimal places")

	ErrInterestRatePrecision = errors.New("interest rate cannot have more than 3 decimal places")
)

var (
	MinInterestRate = decimal.RequireFromString("0.1")
	MaxInterestRate = decimal.RequireFromString("0.5")
)

// Scales of the loan_amount and interest_rate columns.
const (
	AmountScale       int32 = 2
	InterestRateScale int32 = 3
)

// InstallmentOption is the closed set of supported installment counts.
type InstallmentOption int

const (
	SixInstallments        InstallmentOption = 6
	NineInstallments       InstallmentOption = 9
	TwelveInstallments     InstallmentOption = 12
	TwentyFourInstallments InstallmentOption = 24
)

var InstallmentOptions = []InstallmentOption{
	SixInstallments,
	NineInstallments,
	TwelveInstallments,
	TwentyFourInstallments,
}

func ParseInstallmentOption(n int) (InstallmentOption, error) {
	for _, opt := range InstallmentOptions {
		if int(opt) == n {
			return opt, nil
		}
	}
	return 0, apperrors.NewFieldError(ErrInvalidInstallmentCount, "numberOfInstallments", ErrInvalidInstallmentCount.Error())
}

func (o InstallmentOption) Valid() bool {
	_, err := ParseInstallmentOption(int(o))
	return err == nil
}

func (o InstallmentOption) Int() int {
	return int(o)
}

type Loan struct {
	ID                   uuid.UUID
	CustomerID           uuid.UUID
	LoanAmount           decimal.Decimal
	NumberOfInstallments InstallmentOption
	InterestRate         decimal.Decimal
	CreateDate           time.Time
	IsPaid               bool
	UpdatedAt            time.Time
}

type Installment struct {
	ID          uuid.UUID
	LoanID      uuid.UUID
	Amount      decimal.Decimal
	PaidAmount  decimal.Decimal
	DueDate     time.Time
	PaymentDate *time.Time
	IsPaid      bool
}

func NewLoan(customerID uuid.UUID, amount, interestRate decimal.Decimal, option InstallmentOption, createDate time.Time) (*Loan, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewFieldError(ErrInvalidLoanAmount, "loanAmount", ErrInvalidLoanAmount.Error())
	}
	if !fitsScale(amount, AmountScale) {
		return nil, apperrors.NewFieldError(ErrLoanAmountPrecision, "loanAmount", ErrLoanAmountPrecision.Error())
	}
	if interestRate.LessThan(MinInterestRate) || interestRate.GreaterThan(MaxInterestRate) {
		return nil, apperrors.NewFieldError(ErrInvalidInterestRate, "interestRate", ErrInvalidInterestRate.Error())
	}
	if !fitsScale(interestRate, InterestRateScale) {
		return nil, apperrors.NewFieldError(ErrInterestRatePrecision, "interestRate", ErrInterestRatePrecision.Error())
	}
	if !option.Valid() {
		return nil, apperrors.NewFieldError(ErrInvalidInstallmentCount, "numberOfInstallments", ErrInvalidInstallmentCount.Error())
	}

	return &Loan{
		ID:                   uuid.New(),
		CustomerID:           customerID,
		LoanAmount:           amount,
		NumberOfInstallments: option,
		InterestRate:         interestRate,
		CreateDate:           clock.DateOf(createDate),
	}, nil
}

// fitsScale reports whether d is stored without rounding at the given number of decimal places.
func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

func (l *Loan) TotalToBePaid() decimal.Decimal {
	return TotalToBePaid(l.LoanAmount, l.InterestRate)
}

func (l *Loan) FirstPaymentDate() time.Time {
	return FirstDueDate(l.CreateDate)
}

// Reconcile flips IsPaid once every installment is paid. changed reports whether the loan
// needs to be persisted.
func (l *Loan) Reconcile(installments []Installment) (fullyPaid bool, changed bool) {
	fullyPaid = len(installments) > 0
	for i := range installments {
		if !installments[i].IsPaid {
			fullyPaid = false
			break
		}
	}
	if fullyPaid && !l.IsPaid {
		l.IsPaid = true
		changed = true
	}
	return fullyPaid, changed
}

// Pay allocates the payment over the loan's installments and reconciles the loan.
// installments is updated in place.
func (l *Loan) Pay(installments []Installment, payment decimal.Decimal, today time.Time) (Settlement, bool) {
	if l.IsPaid {
		return Settlement{TotalSpent: decimal.Zero, LoanFullyPaid: true}, false
	}
	settlement := Allocate(installments, payment, today)
	fullyPaid, changed := l.Reconcile(installments)
	settlement.LoanFullyPaid = fullyPaid
	return settlement, changed
}

func (i *Installment) markPaid(paidAmount decimal.Decimal, today time.Time) {
	apperrors.Invariant(!i.IsPaid, "installment %s is already paid", i.ID)
	paidOn := today
	i.PaidAmount = paidAmount
	i.PaymentDate = &paidOn
	i.IsPaid = true
}
