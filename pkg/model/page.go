package model

import "time"

// Page is a category under which speakers are grouped and displayed.
// Names are unique across all pages; Order controls display position.
type Page struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Order     int       `json:"order" bson:"order" validate:"min=0"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type PageUpdate struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Order *int   `json:"order,omitempty" validate:"omitempty,min=0"`
}

// PageRef is the resolved page projection embedded in speaker responses.
type PageRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
