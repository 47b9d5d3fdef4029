package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventColName = "events"

	EventStatusActive   = "active"
	EventStatusInactive = "inactive"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Start       time.Time          `bson:"start" json:"start"`
	End         time.Time          `bson:"end" json:"end"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       *string            `bson:"image" json:"image"`
	Place       string             `bson:"place,omitempty" json:"place,omitempty"`
	Barangay    string             `bson:"barangay,omitempty" json:"barangay,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (e *Event) BeforeCreate() error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	return nil
}

// EventInput carries the writable fields of an event. Zero-valued
// times and empty strings mean "not provided" on update.
type EventInput struct {
	Start       time.Time `json:"start" form:"start" time_format:"2006-01-02T15:04:05Z07:00"`
	End         time.Time `json:"end" form:"end" time_format:"2006-01-02T15:04:05Z07:00"`
	Title       string    `json:"title" form:"title"`
	Description string    `json:"description" form:"description"`
	Place       string    `json:"place" form:"place"`
	Barangay    string    `json:"barangay" form:"barangay"`
	Color       string    `json:"color" form:"color"`
}

// ValidateNewEvent applies the creation rules: start, end, title and
// description are required, start must not be in the past, and end
// must be strictly after start (end == start is rejected).
func ValidateNewEvent(in EventInput, now time.Time) error {
	if in.Start.IsZero() || in.End.IsZero() || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return NewValidationError("all fields (start, end, title, description) are required")
	}
	if in.Start.Before(now) {
		return NewValidationError("start time cannot be in the past")
	}
	if !in.End.After(in.Start) {
		return NewValidationError("end time must be after the start time")
	}
	return nil
}

// EventFilter is an immutable query filter built once per request from
// the optional date window and status inputs, then threaded into each
// query call.
type EventFilter struct {
	Window DateWindow
	Status string
}

// NewEventFilter builds the filter value. Status accepts "active",
// "inactive" or empty; anything else is a validation error.
func NewEventFilter(window DateWindow, status string) (EventFilter, error) {
	switch status {
	case "", EventStatusActive, EventStatusInactive:
	default:
		return EventFilter{}, NewValidationError("status must be %q or %q", EventStatusActive, EventStatusInactive)
	}
	return EventFilter{Window: window, Status: status}, nil
}

// Query renders the filter as a bson document matching events whose
// start falls inside the window, optionally restricted by status.
func (f EventFilter) Query() bson.M {
	q := f.Window.FieldQuery("start")
	switch f.Status {
	case EventStatusActive:
		q["isActive"] = true
	case EventStatusInactive:
		q["isActive"] = false
	}
	return q
}

// WithStatus returns a copy of the filter pinned to the given active
// state, used for the active/inactive counts over the same window.
func (f EventFilter) WithStatus(status string) EventFilter {
	f.Status = status
	return f
}

// EventList is the payload of the list endpoint: the filtered events
// plus the active/inactive split within the same filtered set.
type EventList struct {
	Events        []*Event `json:"events"`
	TotalActive   int64    `json:"totalActive"`
	TotalInactive int64    `json:"totalInactive"`
}
