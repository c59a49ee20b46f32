package customer

import (
	"credit-engine/internal/pkg/apperrors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Surname         string          `json:"surname"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	UsedCreditLimit decimal.Decimal `json:"usedCreditLimit"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func NewCustomer(name, surname string, creditLimit decimal.Decimal) *Customer {
	now := time.Now()
	return &Customer{
		ID:              uuid.New(),
		Name:            name,
		Surname:         surname,
		CreditLimit:     creditLimit,
		UsedCreditLimit: decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedCreditLimit)
}

// Reserve takes amount out of the available credit. The customer is left untouched on error.
// Credit is never given back when installments are repaid.
func (c *Customer) Reserve(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewValidationError("loanAmount", "amount to reserve must be greater than zero")
	}
	if c.AvailableCredit().LessThan(amount) {
		return fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientCreditLimit, amount.StringFixed(2), c.AvailableCredit().StringFixed(2))
	}
	c.UsedCreditLimit = c.UsedCreditLimit.Add(amount)
	c.UpdatedAt = time.Now()
	return nil
}
