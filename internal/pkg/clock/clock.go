package clock

import (
	"fmt"
	"time"
)

// Clock supplies the current business date. Dates are calendar days at midnight UTC.
type Clock interface {
	Today() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock reads wall time in the given IANA zone and truncates it to a date.
func NewSystemClock(timezone string) (Clock, error) {
	if timezone == "" {
		timezone = "UTC"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Today() time.Time {
	return DateOf(time.Now().In(c.loc))
}

// Fixed always reports the same date.
type Fixed time.Time

func (f Fixed) Today() time.Time {
	return DateOf(time.Time(f))
}

// DateOf drops the time of day, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
