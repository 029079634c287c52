package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD or DD/MM/YYYY")
	ErrInvalidTime         = errors.New("invalid time, expected HH:MM")
	ErrEndsPastMidnight    = errors.New("reservation would end past midnight")
	ErrServiceNotFound     = errors.New("service not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNoCapacity          = errors.New("no mechanics currently available")
	ErrNoTransaction       = errors.New("operation requires a transaction")
)

// SlotFullError reports a capacity rejection together with the counts the
// client needs for display. Available is what was left at decision time,
// never negative even if capacity shrank below the booked count.
type SlotFullError struct {
	Capacity  int
	Available int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot is full: %d of %d places available", e.Available, e.Capacity)
}
