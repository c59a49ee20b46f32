package loan

import (
	"credit-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateInstallments splits the loan's total into equal installments rounded half up to
// cents. The last installment absorbs the rounding remainder so the amounts always add up
// to the total.
func GenerateInstallments(l *Loan) ([]Installment, error) {
	if !l.NumberOfInstallments.Valid() {
		return nil, apperrors.NewFieldError(ErrInvalidInstallmentCount, "numberOfInstallments", ErrInvalidInstallmentCount.Error())
	}

	count := l.NumberOfInstallments.Int()
	total := l.TotalToBePaid()
	n := decimal.NewFromInt(int64(count))

	base := total.DivRound(n, 2)
	remainder := total.Sub(base.Mul(n))
	firstDue := l.FirstPaymentDate()

	installments := make([]Installment, 0, count)
	sum := decimal.Zero
	for i := 0; i < count; i++ {
		amount := base
		if i == count-1 {
			amount = base.Add(remainder).Round(2)
		}
		installments = append(installments, Installment{
			ID:         uuid.New(),
			LoanID:     l.ID,
			Amount:     amount,
			PaidAmount: decimal.Zero,
			DueDate:    firstDue.AddDate(0, i, 0),
		})
		sum = sum.Add(amount)
	}

	apperrors.Invariant(sum.Equal(total.Round(2)),
		"installment total %s does not match total to be paid %s", sum.StringFixed(2), total.StringFixed(2))

	return installments, nil
}
