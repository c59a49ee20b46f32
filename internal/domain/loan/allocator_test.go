package loan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatInstallments(loanID uuid.UUID, amount string, dues ...time.Time) []Installment {
	out := make([]Installment, 0, len(dues))
	for _, d := range dues {
		out = append(out, Installment{
			ID:         uuid.New(),
			LoanID:     loanID,
			Amount:     dec(amount),
			PaidAmount: decimal.Zero,
			DueDate:    d,
		})
	}
	return out
}

func TestAllocate(t *testing.T) {
	loanID := uuid.New()
	today := date(2025, time.March, 1)

	t.Run("applies a per-day reward to early installments", func(t *testing.T) {
		installments := flatInstallments(loanID, "100",
			date(2025, time.March, 11), date(2025, time.March, 12), date(2025, time.March, 13),
			date(2025, time.April, 11), date(2025, time.April, 12), date(2025, time.April, 13))

		s := Allocate(installments, dec("300"), today)

		require.Equal(t, 3, s.PaidCount)
		assert.Equal(t, "99.00", s.Details[0].PaidAmount.StringFixed(2))
		assert.Equal(t, "98.90", s.Details[1].PaidAmount.StringFixed(2))
		assert.Equal(t, "98.80", s.Details[2].PaidAmount.StringFixed(2))
		assert.Equal(t, "296.70", s.TotalSpent.StringFixed(2))
		for i, d := range s.Details {
			assert.True(t, d.IsReward)
			assert.False(t, d.IsPenalty)
			assert.Equal(t, today, d.PaymentDate)
			assert.Equal(t, installments[i].ID, d.InstallmentID)
			assert.True(t, installments[i].IsPaid)
			require.NotNil(t, installments[i].PaymentDate)
			assert.Equal(t, today, *installments[i].PaymentDate)
		}
		assert.False(t, installments[3].IsPaid)
		assert.Len(t, s.Paid, 3)
	})

	t.Run("applies a per-day penalty to late installments", func(t *testing.T) {
		installments := flatInstallments(loanID, "100", date(2025, time.February, 1))

		s := Allocate(installments, dec("100"), today)

		require.Equal(t, 1, s.PaidCount)
		assert.True(t, s.Details[0].IsPenalty)
		assert.False(t, s.Details[0].IsReward)
		assert.Equal(t, "102.80", s.Details[0].PaidAmount.StringFixed(2))
		assert.True(t, s.Details[0].PaidAmount.GreaterThan(installments[0].Amount))
	})

	t.Run("charges face value on the due date", func(t *testing.T) {
		installments := flatInstallments(loanID, "183.33", today)

		s := Allocate(installments, dec("200"), today)

		require.Equal(t, 1, s.PaidCount)
		assert.False(t, s.Details[0].IsReward)
		assert.False(t, s.Details[0].IsPenalty)
		assert.Equal(t, "183.33", s.TotalSpent.StringFixed(2))
	})

	t.Run("never pays an installment partially", func(t *testing.T) {
		installments := flatInstallments(loanID, "100", date(2025, time.April, 1), date(2025, time.May, 1))

		s := Allocate(installments, dec("50"), today)

		assert.Equal(t, 0, s.PaidCount)
		assert.True(t, s.TotalSpent.IsZero())
		assert.Empty(t, s.Details)
		assert.False(t, installments[0].IsPaid)
	})

	t.Run("stops at the first installment the remaining budget cannot cover", func(t *testing.T) {
		installments := flatInstallments(loanID, "100", date(2025, time.April, 1), date(2025, time.May, 1))

		s := Allocate(installments, dec("199.99"), today)

		assert.Equal(t, 1, s.PaidCount)
		assert.False(t, installments[1].IsPaid)
	})

	t.Run("deducts face value from the budget while crediting adjusted amounts", func(t *testing.T) {
		installments := flatInstallments(loanID, "100", date(2025, time.June, 1), date(2025, time.June, 1))
		installments[1].DueDate = date(2025, time.May, 1)

		s := Allocate(installments, dec("199"), today)

		// 199 covers one face amount but not two, even though the rewarded amounts sum below 199.
		assert.Equal(t, 1, s.PaidCount)
		assert.Equal(t, installments[1].ID, s.Details[0].InstallmentID)
		assert.Equal(t, "93.90", s.TotalSpent.StringFixed(2))
	})

	t.Run("excludes installments due after the payable window", func(t *testing.T) {
		installments := flatInstallments(loanID, "100",
			date(2025, time.June, 30), date(2025, time.July, 1))

		s := Allocate(installments, dec("1000"), today)

		require.Equal(t, 1, s.PaidCount)
		assert.True(t, installments[0].IsPaid)
		assert.False(t, installments[1].IsPaid)
	})

	t.Run("pays in due date order and keeps input order on ties", func(t *testing.T) {
		installments := flatInstallments(loanID, "100",
			date(2025, time.May, 1), date(2025, time.April, 1), date(2025, time.April, 1))

		s := Allocate(installments, dec("200"), today)

		require.Equal(t, 2, s.PaidCount)
		assert.Equal(t, installments[1].ID, s.Details[0].InstallmentID)
		assert.Equal(t, installments[2].ID, s.Details[1].InstallmentID)
		assert.False(t, installments[0].IsPaid)
	})

	t.Run("skips installments that are already paid", func(t *testing.T) {
		installments := flatInstallments(loanID, "100", date(2025, time.April, 1), date(2025, time.May, 1))
		paidOn := date(2025, time.February, 20)
		installments[0].IsPaid = true
		installments[0].PaidAmount = dec("95.90")
		installments[0].PaymentDate = &paidOn

		s := Allocate(installments, dec("500"), today)

		require.Equal(t, 1, s.PaidCount)
		assert.Equal(t, installments[1].ID, s.Details[0].InstallmentID)
		assert.Equal(t, "95.90", installments[0].PaidAmount.StringFixed(2))
		assert.Equal(t, paidOn, *installments[0].PaymentDate)
	})

	t.Run("returns an empty settlement when nothing is eligible", func(t *testing.T) {
		s := Allocate(nil, dec("100"), today)

		assert.Equal(t, 0, s.PaidCount)
		assert.True(t, s.TotalSpent.IsZero())
	})
}

func TestDayAdjustmentRounding(t *testing.T) {
	assert.Equal(t, "0.18", dayAdjustment(dec("183.33"), 1).StringFixed(2))
	assert.Equal(t, "5.50", dayAdjustment(dec("183.33"), 30).StringFixed(2))
	assert.Equal(t, "0.01", dayAdjustment(dec("5"), 1).StringFixed(2))
	assert.Equal(t, "0.00", dayAdjustment(dec("4.99"), 1).StringFixed(2))
}
