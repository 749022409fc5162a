package models

import "time"

// Event represents an event owned by a user
// Maps to MySQL table: events
type Event struct {
	EventID     string    `json:"eventId" db:"event_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	EventType   string    `json:"eventType" db:"event_type"`
	Description string    `json:"description" db:"description"`
	ScheduledAt string    `json:"scheduledAt" db:"scheduled_at"`
	Venue       string    `json:"venue" db:"venue"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ============================================================
// SaveEventRequest - Request body for create and update
// Absent fields are nil; an update leaves them untouched
// ============================================================
type SaveEventRequest struct {
	Title       *string `json:"title,omitempty"`
	EventType   *string `json:"eventType,omitempty"`
	Description *string `json:"description,omitempty"`
	ScheduledAt *string `json:"scheduledAt,omitempty"`
	Venue       *string `json:"venue,omitempty"`
}

// IsEmpty reports whether no field was provided
func (r *SaveEventRequest) IsEmpty() bool {
	return r.Title == nil && r.EventType == nil && r.Description == nil &&
		r.ScheduledAt == nil && r.Venue == nil
}

// Columns returns the provided fields keyed by column name, in a fixed order
func (r *SaveEventRequest) Columns() ([]string, []interface{}) {
	var cols []string
	var vals []interface{}
	add := func(col string, v *string) {
		if v != nil {
			cols = append(cols, col)
			vals = append(vals, *v)
		}
	}
	add("title", r.Title)
	add("event_type", r.EventType)
	add("description", r.Description)
	add("scheduled_at", r.ScheduledAt)
	add("venue", r.Venue)
	return cols, vals
}

// ApplyTo copies the provided fields onto e
func (r *SaveEventRequest) ApplyTo(e *Event) {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.EventType != nil {
		e.EventType = *r.EventType
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.ScheduledAt != nil {
		e.ScheduledAt = *r.ScheduledAt
	}
	if r.Venue != nil {
		e.Venue = *r.Venue
	}
}
