package domain

import (
	"fmt"
	"time"
)

const (
	dateLayout   = "2006-01-02"
	dateLayoutDM = "02/01/2006"
	clockLayout  = "15:04"
)

// NormalizeDate accepts YYYY-MM-DD or DD/MM/YYYY and returns the canonical
// YYYY-MM-DD form. Anything else, including impossible calendar dates,
// is ErrInvalidDate.
func NormalizeDate(s string) (string, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(dateLayoutDM, s); err == nil {
		return t.Format(dateLayout), nil
	}
	return "", ErrInvalidDate
}

// NormalizeClock validates and canonicalizes an HH:MM wall-clock value.
func NormalizeClock(s string) (string, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return "", ErrInvalidTime
	}
	return t.Format(clockLayout), nil
}

// EndTime adds a duration in minutes to a canonical HH:MM start, carrying
// minute overflow into hours. A result at or past midnight is rejected:
// the slot identity is same-day, so an interval crossing into the next day
// would not be described by the slot it was booked under.
func EndTime(start string, durationMinutes int) (string, error) {
	t, err := time.Parse(clockLayout, start)
	if err != nil {
		return "", ErrInvalidTime
	}
	total := t.Hour()*60 + t.Minute() + durationMinutes
	if total >= 24*60 {
		return "", ErrEndsPastMidnight
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}
