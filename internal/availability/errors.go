package availability

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingProgram is returned when a lock request lacks the program
// date or time.
var ErrMissingProgram = errors.New("program date and time are required")

// AlreadyLockedError is returned when a booking attempt hits a lock
// that is still effective. It carries the holder so callers can see
// who owns the booking.
type AlreadyLockedError struct {
	LockedBy     string
	LockedByName string
	ProgramDate  time.Time
}

func (e *AlreadyLockedError) Error() string {
	return fmt.Sprintf("speaker is locked by %s until %s", e.LockedBy, e.ProgramDate.Format(time.RFC3339))
}
