package loan

import (
	"credit-engine/internal/pkg/clock"
	"time"
)

// PayableWindowMonths is how many months past the current one may be paid ahead.
const PayableWindowMonths = 3

// FirstDueDate is the first day of the month following the creation date.
func FirstDueDate(createDate time.Time) time.Time {
	y, m, _ := createDate.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
}

// PayableWindowEnd is the last day of the month PayableWindowMonths after today's month.
func PayableWindowEnd(today time.Time) time.Time {
	y, m, _ := today.Date()
	return time.Date(y, m+PayableWindowMonths+1, 0, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b; negative when b precedes a.
func daysBetween(a, b time.Time) int {
	return int(clock.DateOf(b).Sub(clock.DateOf(a)).Hours() / 24)
}
