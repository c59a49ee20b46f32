package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	routingKeyLoanCreated      = "loan.created"
	routingKeyInstallmentsPaid = "loan.installments.paid"
	routingKeyLoanPaidOff      = "loan.paid_off"
	routingKeyCustomerCreated  = "customer.created"
)

type EventPublisher interface {
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
	PublishInstallmentsPaid(ctx context.Context, event InstallmentsPaidEvent) error
	PublishLoanPaidOff(ctx context.Context, event LoanPaidOffEvent) error
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
}

type LoanCreatedEvent struct {
	LoanID               uuid.UUID       `json:"loanId"`
	CustomerID           uuid.UUID       `json:"customerId"`
	LoanAmount           decimal.Decimal `json:"loanAmount"`
	InterestRate         decimal.Decimal `json:"interestRate"`
	NumberOfInstallments int             `json:"numberOfInstallments"`
	TotalToBePaid        decimal.Decimal `json:"totalToBePaid"`
	FirstPaymentDate     time.Time       `json:"firstPaymentDate"`
	Timestamp            time.Time       `json:"timestamp"`
}

type PaidInstallment struct {
	InstallmentID uuid.UUID       `json:"installmentId"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	IsReward      bool            `json:"isReward"`
	IsPenalty     bool            `json:"isPenalty"`
}

type InstallmentsPaidEvent struct {
	LoanID           uuid.UUID         `json:"loanId"`
	CustomerID       uuid.UUID         `json:"customerId"`
	InstallmentsPaid int               `json:"installmentsPaid"`
	TotalSpent       decimal.Decimal   `json:"totalSpent"`
	PaymentDate      time.Time         `json:"paymentDate"`
	Installments     []PaidInstallment `json:"installments"`
	Timestamp        time.Time         `json:"timestamp"`
}

type LoanPaidOffEvent struct {
	LoanID     uuid.UUID `json:"loanId"`
	CustomerID uuid.UUID `json:"customerId"`
	Timestamp  time.Time `json:"timestamp"`
}

type CustomerCreatedEvent struct {
	CustomerID  uuid.UUID       `json:"customerId"`
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

var _ EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishLoanCreated(context.Context, LoanCreatedEvent) error           { return nil }
func (NoopPublisher) PublishInstallmentsPaid(context.Context, InstallmentsPaidEvent) error { return nil }
func (NoopPublisher) PublishLoanPaidOff(context.Context, LoanPaidOffEvent) error           { return nil }
func (NoopPublisher) PublishCustomerCreated(context.Context, CustomerCreatedEvent) error   { return nil }
