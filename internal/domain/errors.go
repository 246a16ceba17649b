package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightNotFound        = errors.New("flight not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrFlightNotBookable     = errors.New("flight is not available for booking")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")
	ErrDuplicateReference    = errors.New("booking reference already exists")
	ErrDuplicateFlightNumber = errors.New("flight number already exists")
	ErrTransactionConflict   = errors.New("concurrent update conflict, retry the operation")
)

// ValidationError reports malformed input. It is returned before any storage
// access, so a validation failure never mutates state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InsufficientSeatsError carries the availability observed inside the
// reservation transaction so callers can render a precise message.
type InsufficientSeatsError struct {
	Available int
	Requested int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough available seats: %d available, %d requested", e.Available, e.Requested)
}
