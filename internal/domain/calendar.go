package domain

import (
	"time"

	"github.com/lib/pq"
)

// EventInput is what the dialogue core asks the calendar to create.
type EventInput struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Zoom        bool      `json:"zoom,omitempty"`
}

// EventResult is the calendar's answer to CreateEvent.
type EventResult struct {
	OK       bool   `json:"ok"`
	ID       string `json:"id,omitempty"`
	JoinURL  string `json:"join_url,omitempty"`
	Provider string `json:"provider,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FreeSlot is an open window in a user's calendar.
type FreeSlot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"duration_min"`
}

// CalendarEvent is a stored calendar entry.
type CalendarEvent struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"user_id" gorm:"index"`
	Title       string         `json:"title"`
	StartsAt    time.Time      `json:"starts_at" gorm:"index"`
	EndsAt      time.Time      `json:"ends_at"`
	Attendees   pq.StringArray `json:"attendees,omitempty" gorm:"type:text[]"`
	Location    string         `json:"location,omitempty"`
	Description string         `json:"description,omitempty"`
	JoinURL     string         `json:"join_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Overlaps reports whether the event intersects [start, end).
func (e *CalendarEvent) Overlaps(start, end time.Time) bool {
	return start.Before(e.EndsAt) && end.After(e.StartsAt)
}
