package dto

import (
	"credit-engine/internal/domain/loan"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = time.DateOnly

type CreateLoanRequest struct {
	CustomerID           uuid.UUID       `json:"customerId" swaggertype:"string" format:"uuid"`
	Amount               decimal.Decimal `json:"amount" swaggertype:"string" example:"1200.00"`
	InterestRate         decimal.Decimal `json:"interestRate" swaggertype:"string" example:"0.1"`
	NumberOfInstallments int             `json:"numberOfInstallments" enums:"6,9,12,24" example:"12"`
}

// Validate covers request shape only. Amount, rate and count rules live in the loan domain.
func (r *CreateLoanRequest) Validate() error {
	if r.CustomerID == uuid.Nil {
		return fmt.Errorf("customerId is required")
	}
	return nil
}

type PayLoanRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"350.00"`
}

type LoanResponse struct {
	ID                   string `json:"id"`
	CustomerID           string `json:"customerId"`
	LoanAmount           string `json:"loanAmount" example:"1200.00"`
	InterestRate         string `json:"interestRate" example:"0.1"`
	NumberOfInstallments int    `json:"numberOfInstallments" example:"12"`
	TotalToBePaid        string `json:"totalToBePaid" example:"1320.00"`
	FirstPaymentDate     string `json:"firstPaymentDate" example:"2025-02-01"`
	CreateDate           string `json:"createDate" example:"2025-01-15"`
	IsPaid               bool   `json:"isPaid"`
}

type CreateLoanResponse struct {
	LoanResponse
	Installments []InstallmentResponse `json:"installments"`
}

type InstallmentResponse struct {
	ID          string  `json:"id"`
	LoanID      string  `json:"loanId"`
	Amount      string  `json:"amount" example:"110.00"`
	PaidAmount  string  `json:"paidAmount" example:"0.00"`
	DueDate     string  `json:"dueDate" example:"2025-02-01"`
	PaymentDate *string `json:"paymentDate,omitempty"`
	IsPaid      bool    `json:"isPaid"`
}

type PaymentDetailResponse struct {
	InstallmentID string `json:"installmentId"`
	PaidAmount    string `json:"paidAmount"`
	PaymentDate   string `json:"paymentDate"`
	IsReward      bool   `json:"isReward"`
	IsPenalty     bool   `json:"isPenalty"`
}

type PaymentResponse struct {
	InstallmentsPaid int                     `json:"installmentsPaid"`
	TotalSpent       string                  `json:"totalSpent" example:"287.70"`
	LoanFullyPaid    bool                    `json:"loanFullyPaid"`
	Details          []PaymentDetailResponse `json:"details"`
}

func NewLoanResponse(l *loan.Loan) LoanResponse {
	return LoanResponse{
		ID:                   l.ID.String(),
		CustomerID:           l.CustomerID.String(),
		LoanAmount:           formatMoney(l.LoanAmount),
		InterestRate:         l.InterestRate.String(),
		NumberOfInstallments: l.NumberOfInstallments.Int(),
		TotalToBePaid:        formatMoney(l.TotalToBePaid()),
		FirstPaymentDate:     l.FirstPaymentDate().Format(dateLayout),
		CreateDate:           l.CreateDate.Format(dateLayout),
		IsPaid:               l.IsPaid,
	}
}

func NewLoanListResponse(loans []loan.Loan) []LoanResponse {
	resp := make([]LoanResponse, len(loans))
	for i := range loans {
		resp[i] = NewLoanResponse(&loans[i])
	}
	return resp
}

func NewCreateLoanResponse(created *loan.CreatedLoan) CreateLoanResponse {
	resp := CreateLoanResponse{
		LoanResponse: NewLoanResponse(created.Loan),
		Installments: NewInstallmentListResponse(created.Installments),
	}
	resp.TotalToBePaid = formatMoney(created.TotalToBePaid)
	resp.FirstPaymentDate = created.FirstDueDate.Format(dateLayout)
	return resp
}

func NewInstallmentResponse(inst *loan.Installment) InstallmentResponse {
	var paymentDate *string
	if inst.PaymentDate != nil {
		s := inst.PaymentDate.Format(dateLayout)
		paymentDate = &s
	}
	return InstallmentResponse{
		ID:          inst.ID.String(),
		LoanID:      inst.LoanID.String(),
		Amount:      formatMoney(inst.Amount),
		PaidAmount:  formatMoney(inst.PaidAmount),
		DueDate:     inst.DueDate.Format(dateLayout),
		PaymentDate: paymentDate,
		IsPaid:      inst.IsPaid,
	}
}

func NewInstallmentListResponse(installments []loan.Installment) []InstallmentResponse {
	resp := make([]InstallmentResponse, len(installments))
	for i := range installments {
		resp[i] = NewInstallmentResponse(&installments[i])
	}
	return resp
}

func NewPaymentResponse(s *loan.Settlement) PaymentResponse {
	details := make([]PaymentDetailResponse, len(s.Details))
	for i, d := range s.Details {
		details[i] = PaymentDetailResponse{
			InstallmentID: d.InstallmentID.String(),
			PaidAmount:    formatMoney(d.PaidAmount),
			PaymentDate:   d.PaymentDate.Format(dateLayout),
			IsReward:      d.IsReward,
			IsPenalty:     d.IsPenalty,
		}
	}
	return PaymentResponse{
		InstallmentsPaid: s.PaidCount,
		TotalSpent:       formatMoney(s.TotalSpent),
		LoanFullyPaid:    s.LoanFullyPaid,
		Details:          details,
	}
}
