package booking

import (
	"errors"
	"fmt"

	"servio/models"
)

// InvalidTransitionError is returned when the requested status is not
// reachable from the booking's current status. Nothing is written.
type InvalidTransitionError struct {
	Current   models.BookingStatus
	Requested models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.Current.IsTerminal() {
		return fmt.Sprintf("invalid transition from %s to %s: booking is %s and can no longer change", e.Current, e.Requested, e.Current)
	}
	return fmt.Sprintf("invalid transition from %s to %s", e.Current, e.Requested)
}

var (
	ErrUnknownStatus        = errors.New("unknown booking status")
	ErrRescheduleNotAllowed = errors.New("booking can only be rescheduled while confirmed")
	ErrInvalidDate          = errors.New("invalid reschedule date")
	ErrInvalidNote          = errors.New("invalid provider note")
)
