package loan

import "github.com/shopspring/decimal"

// DailyAdjustmentRate is applied per day early (discount) or late (penalty).
var DailyAdjustmentRate = decimal.RequireFromString("0.001")

var one = decimal.NewFromInt(1)

// TotalToBePaid is principal * (1 + interestRate), unrounded.
func TotalToBePaid(principal, interestRate decimal.Decimal) decimal.Decimal {
	return principal.Mul(one.Add(interestRate))
}

// dayAdjustment is amount * rate * days rounded half up to cents.
func dayAdjustment(amount decimal.Decimal, days int) decimal.Decimal {
	return amount.Mul(DailyAdjustmentRate).Mul(decimal.NewFromInt(int64(days))).Round(2)
}
