package dto

import (
	"credit-engine/internal/domain/customer"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest optionally carries login credentials for a CUSTOMER user bound
// to the new record. Username and password go together.
type CreateCustomerRequest struct {
	Name        string          `json:"name" example:"Ada"`
	Surname     string          `json:"surname" example:"Lovelace"`
	CreditLimit decimal.Decimal `json:"creditLimit" swaggertype:"string" example:"10000.00"`
	Username    string          `json:"username,omitempty" example:"ada"`
	Password    string          `json:"password,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Surname) == "" {
		return fmt.Errorf("surname cannot be empty")
	}
	if r.CreditLimit.IsNegative() {
		return fmt.Errorf("creditLimit cannot be negative")
	}
	if (strings.TrimSpace(r.Username) == "") != (r.Password == "") {
		return fmt.Errorf("username and password must be provided together")
	}
	return nil
}

func (r *CreateCustomerRequest) WantsLogin() bool {
	return strings.TrimSpace(r.Username) != ""
}

type CustomerResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Surname         string    `json:"surname"`
	CreditLimit     string    `json:"creditLimit" example:"10000.00"`
	UsedCreditLimit string    `json:"usedCreditLimit" example:"2500.00"`
	AvailableCredit string    `json:"availableCredit" example:"7500.00"`
	Username        string    `json:"username,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:              cust.ID.String(),
		Name:            cust.Name,
		Surname:         cust.Surname,
		CreditLimit:     formatMoney(cust.CreditLimit),
		UsedCreditLimit: formatMoney(cust.UsedCreditLimit),
		AvailableCredit: formatMoney(cust.AvailableCredit()),
		CreatedAt:       cust.CreatedAt,
		UpdatedAt:       cust.UpdatedAt,
	}
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
