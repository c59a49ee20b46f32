package loan

import (
	"credit-engine/internal/pkg/clock"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDetail records one installment settled by a payment.
type PaymentDetail struct {
	InstallmentID uuid.UUID
	PaidAmount    decimal.Decimal
	PaymentDate   time.Time
	IsReward      bool
	IsPenalty     bool
}

// Settlement is the outcome of allocating a single payment.
type Settlement struct {
	PaidCount     int
	TotalSpent    decimal.Decimal
	LoanFullyPaid bool
	Details       []PaymentDetail
	// Paid holds the installments settled by this payment, already marked paid.
	Paid []Installment
}

// Allocate pays unpaid installments inside the payable window, earliest due date first,
// while the remaining payment covers the next installment's face amount. Early payments
// get a discount and late ones a penalty, both priced per day. The budget is consumed at
// face value regardless of the adjustment. installments is updated in place.
func Allocate(installments []Installment, payment decimal.Decimal, today time.Time) Settlement {
	today = clock.DateOf(today)
	windowEnd := PayableWindowEnd(today)

	eligible := make([]int, 0, len(installments))
	for i := range installments {
		if !installments[i].IsPaid && !installments[i].DueDate.After(windowEnd) {
			eligible = append(eligible, i)
		}
	}
	sort.SliceStable(eligible, func(a, b int) bool {
		return installments[eligible[a]].DueDate.Before(installments[eligible[b]].DueDate)
	})

	settlement := Settlement{TotalSpent: decimal.Zero}
	remaining := payment

	for _, idx := range eligible {
		inst := &installments[idx]
		if remaining.LessThan(inst.Amount) {
			break
		}

		paidAmount := inst.Amount
		detail := PaymentDetail{InstallmentID: inst.ID, PaymentDate: today}

		due := clock.DateOf(inst.DueDate)
		switch {
		case today.Before(due):
			paidAmount = paidAmount.Sub(dayAdjustment(inst.Amount, daysBetween(today, due)))
			detail.IsReward = true
		case today.After(due):
			paidAmount = paidAmount.Add(dayAdjustment(inst.Amount, daysBetween(due, today)))
			detail.IsPenalty = true
		}
		detail.PaidAmount = paidAmount

		inst.markPaid(paidAmount, today)

		remaining = remaining.Sub(inst.Amount)
		settlement.TotalSpent = settlement.TotalSpent.Add(paidAmount)
		settlement.PaidCount++
		settlement.Details = append(settlement.Details, detail)
		settlement.Paid = append(settlement.Paid, *inst)
	}

	return settlement
}
