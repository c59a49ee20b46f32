package dto

import (
	"credit-engine/internal/domain/loan"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoanFixture(t *testing.T) (*loan.Loan, []loan.Installment) {
	t.Helper()
	l, err := loan.NewLoan(uuid.New(), decimal.RequireFromString("1200"), decimal.RequireFromString("0.1"),
		loan.TwelveInstallments, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	installments, err := loan.GenerateInstallments(l)
	require.NoError(t, err)
	return l, installments
}

func TestNewLoanResponse(t *testing.T) {
	l, _ := newLoanFixture(t)

	resp := NewLoanResponse(l)

	assert.Equal(t, l.ID.String(), resp.ID)
	assert.Equal(t, l.CustomerID.String(), resp.CustomerID)
	assert.Equal(t, "1200.00", resp.LoanAmount)
	assert.Equal(t, "0.1", resp.InterestRate)
	assert.Equal(t, 12, resp.NumberOfInstallments)
	assert.Equal(t, "1320.00", resp.TotalToBePaid)
	assert.Equal(t, "2025-02-01", resp.FirstPaymentDate)
	assert.Equal(t, "2025-01-15", resp.CreateDate)
	assert.False(t, resp.IsPaid)
}

func TestNewCreateLoanResponse(t *testing.T) {
	l, installments := newLoanFixture(t)
	created := &loan.CreatedLoan{
		Loan:          l,
		Installments:  installments,
		TotalToBePaid: l.TotalToBePaid(),
		FirstDueDate:  l.FirstPaymentDate(),
	}

	resp := NewCreateLoanResponse(created)

	require.Len(t, resp.Installments, 12)
	assert.Equal(t, "110.00", resp.Installments[0].Amount)
	assert.Equal(t, "0.00", resp.Installments[0].PaidAmount)
	assert.Equal(t, "2025-02-01", resp.Installments[0].DueDate)
	assert.Equal(t, "2026-01-01", resp.Installments[11].DueDate)
	assert.Nil(t, resp.Installments[0].PaymentDate)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "1320.00", flat["totalToBePaid"])
	assert.NotContains(t, string(raw), "paymentDate")
}

func TestNewInstallmentResponsePaid(t *testing.T) {
	paidOn := time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)
	inst := &loan.Installment{
		ID:          uuid.New(),
		LoanID:      uuid.New(),
		Amount:      decimal.RequireFromString("100"),
		PaidAmount:  decimal.RequireFromString("98.8"),
		DueDate:     time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		PaymentDate: &paidOn,
		IsPaid:      true,
	}

	resp := NewInstallmentResponse(inst)

	assert.Equal(t, "98.80", resp.PaidAmount)
	require.NotNil(t, resp.PaymentDate)
	assert.Equal(t, "2025-01-20", *resp.PaymentDate)
	assert.True(t, resp.IsPaid)
}

func TestNewPaymentResponse(t *testing.T) {
	id := uuid.New()
	s := &loan.Settlement{
		PaidCount:     1,
		TotalSpent:    decimal.RequireFromString("98.8"),
		LoanFullyPaid: false,
		Details: []loan.PaymentDetail{{
			InstallmentID: id,
			PaidAmount:    decimal.RequireFromString("98.8"),
			PaymentDate:   time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
			IsReward:      true,
		}},
	}

	resp := NewPaymentResponse(s)

	assert.Equal(t, 1, resp.InstallmentsPaid)
	assert.Equal(t, "98.80", resp.TotalSpent)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, id.String(), resp.Details[0].InstallmentID)
	assert.True(t, resp.Details[0].IsReward)
	assert.False(t, resp.Details[0].IsPenalty)

	empty := NewPaymentResponse(&loan.Settlement{TotalSpent: decimal.Zero})
	assert.NotNil(t, empty.Details)
	assert.Equal(t, "0.00", empty.TotalSpent)
}

func TestCreateLoanRequestDecoding(t *testing.T) {
	customerID := uuid.New()
	body := `{"customerId":"` + customerID.String() + `","amount":"1200.50","interestRate":0.2,"numberOfInstallments":9}`

	var req CreateLoanRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.NoError(t, req.Validate())
	assert.Equal(t, customerID, req.CustomerID)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("1200.50")))
	assert.True(t, req.InterestRate.Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, 9, req.NumberOfInstallments)

	assert.ErrorContains(t, (&CreateLoanRequest{}).Validate(), "customerId is required")
}
