package model

import "time"

// Speaker is a bookable roster entry. Availability is embedded and is
// only ever written through Free/Locked so that the four locked fields
// stay populated or cleared as a unit.
type Speaker struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string       `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Area         string       `json:"area" bson:"area" validate:"required,min=2,max=100"`
	PhoneNumber  string       `json:"phone_number" bson:"phone_number" validate:"required,e164"`
	PageID       string       `json:"page_id" bson:"page_id" validate:"required,mongodb"`
	Availability Availability `json:"availability" bson:"availability"`
	CreatedAt    time.Time    `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty" bson:"updated_at" validate:"omitempty"`

	// Page is resolved for display only and never persisted.
	Page *PageRef `json:"page,omitempty" bson:"-" validate:"-"`
}

type SpeakerUpdate struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Area        string `json:"area,omitempty" validate:"omitempty,min=2,max=100"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	PageID      string `json:"page_id,omitempty" validate:"omitempty,mongodb"`
}

// Availability is the booking lock state of a speaker. When
// IsAvailable is true all other fields are empty; when false they are
// all set (program coordinates plus the holder identity).
type Availability struct {
	IsAvailable  bool       `json:"is_available" bson:"is_available"`
	ProgramDate  *time.Time `json:"program_date,omitempty" bson:"program_date,omitempty"`
	ProgramTime  string     `json:"program_time,omitempty" bson:"program_time,omitempty"`
	LockedBy     string     `json:"locked_by,omitempty" bson:"locked_by,omitempty"`
	LockedByName string     `json:"locked_by_name,omitempty" bson:"locked_by_name,omitempty"`
	LockedAt     *time.Time `json:"locked_at,omitempty" bson:"locked_at,omitempty"`
}

// Free returns the unlocked availability state.
func Free() Availability {
	return Availability{IsAvailable: true}
}

// Locked returns the availability state of a speaker booked by caller
// for the given program coordinates.
func Locked(caller Caller, programDate time.Time, programTime string, now time.Time) Availability {
	return Availability{
		IsAvailable:  false,
		ProgramDate:  &programDate,
		ProgramTime:  programTime,
		LockedBy:     caller.ID,
		LockedByName: caller.Name,
		LockedAt:     &now,
	}
}

// Caller is the authenticated identity attached to a request by the
// auth middleware. Admin gates roster and page mutations.
type Caller struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}
