// Package availability owns the booking state machine of a single
// speaker: FREE or LOCKED for a program, with lazy expiry of locks
// whose program date has elapsed. All functions are pure decisions
// over an Availability value; persistence is the caller's problem.
package availability

import (
	"strings"
	"time"

	"podium/pkg/model"
)

// Lock attempts the FREE -> LOCKED transition for caller at the given
// program coordinates. A lock whose program date is already in the
// past counts as free and is overwritten (lazy expiry). Returns
// ErrMissingProgram before touching state when date or time is
// absent, and *AlreadyLockedError when the current lock is still
// effective.
func Lock(current model.Availability, caller model.Caller, programDate time.Time, programTime string, now time.Time) (model.Availability, error) {
	if programDate.IsZero() || strings.TrimSpace(programTime) == "" {
		return model.Availability{}, ErrMissingProgram
	}

	if !Available(current, now) {
		lockedErr := &AlreadyLockedError{
			LockedBy:     current.LockedBy,
			LockedByName: current.LockedByName,
		}
		if current.ProgramDate != nil {
			lockedErr.ProgramDate = *current.ProgramDate
		}
		return model.Availability{}, lockedErr
	}

	return model.Locked(caller, programDate, programTime, now), nil
}

// Release applies LOCKED -> FREE. No ownership check: any
// authenticated caller may release, and releasing a free speaker is a
// no-op.
func Release(model.Availability) model.Availability {
	return model.Free()
}

// Available reports whether the speaker can be booked right now: it
// is either marked free, or its lock's program date has already
// elapsed. A program date equal to now has not elapsed (strict
// less-than). Read-only; the stored record may keep showing LOCKED
// until the next write reconciles it.
func Available(a model.Availability, now time.Time) bool {
	if a.IsAvailable {
		return true
	}
	if a.ProgramDate != nil && a.ProgramDate.Before(now) {
		return true
	}
	return false
}
