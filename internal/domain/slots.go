package domain

import (
	"fmt"
	"strings"
)

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Slots is a sparse record of parameters extracted for an intent.
// A zero value field means "not yet known"; defaults are applied only
// when an action is executed.
type Slots struct {
	Title       string   `json:"title,omitempty"`
	Date        string   `json:"date,omitempty"`         // YYYY-MM-DD
	Time        string   `json:"time,omitempty"`         // HH:mm, 24h
	DurationMin int      `json:"duration_min,omitempty"` // [5,480]
	Attendees   []string `json:"attendees,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	TargetLang  string   `json:"target_lang,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	DueDate     string   `json:"due_date,omitempty"` // YYYY-MM-DD
}

// IsEmpty reports whether no field is known.
func (s Slots) IsEmpty() bool {
	return s.Title == "" && s.Date == "" && s.Time == "" && s.DurationMin == 0 &&
		len(s.Attendees) == 0 && s.Phone == "" && s.TargetLang == "" && s.Location == "" &&
		s.Description == "" && s.Priority == "" && s.DueDate == ""
}

// Merge returns s overlaid with every field present in other.
// Fields absent from other are preserved.
func (s Slots) Merge(other Slots) Slots {
	merged := s
	if other.Title != "" {
		merged.Title = other.Title
	}
	if other.Date != "" {
		merged.Date = other.Date
	}
	if other.Time != "" {
		merged.Time = other.Time
	}
	if other.DurationMin != 0 {
		merged.DurationMin = other.DurationMin
	}
	if len(other.Attendees) > 0 {
		merged.Attendees = append([]string(nil), other.Attendees...)
	}
	if other.Phone != "" {
		merged.Phone = other.Phone
	}
	if other.TargetLang != "" {
		merged.TargetLang = other.TargetLang
	}
	if other.Location != "" {
		merged.Location = other.Location
	}
	if other.Description != "" {
		merged.Description = other.Description
	}
	if other.Priority != "" {
		merged.Priority = other.Priority
	}
	if other.DueDate != "" {
		merged.DueDate = other.DueDate
	}
	return merged
}

// Missing returns the names of the fields intent needs before it can run.
func (s Slots) Missing(intent Intent) []string {
	var missing []string
	switch intent {
	case IntentCreateMeeting:
		if s.Date == "" {
			missing = append(missing, "date")
		}
		if s.Time == "" {
			missing = append(missing, "time")
		}
	case IntentCreateTask:
		if s.Title == "" {
			missing = append(missing, "title")
		}
	}
	return missing
}

var defaultLabels = map[string]string{
	"title":       "Title",
	"date":        "Date",
	"time":        "Time",
	"duration":    "Duration",
	"minutes":     "min",
	"attendees":   "Attendees",
	"location":    "Location",
	"phone":       "Phone",
	"target_lang": "Target language",
	"priority":    "Priority",
	"due_date":    "Due",
}

// Lines renders the known fields as "Label: value" lines in a stable order.
// label translates field keys; nil uses English labels.
func (s Slots) Lines(label func(field string) string) []string {
	if label == nil {
		label = func(field string) string { return defaultLabels[field] }
	}

	var lines []string
	add := func(field, value string) {
		if value != "" {
			lines = append(lines, label(field)+": "+value)
		}
	}
	add("title", s.Title)
	add("date", s.Date)
	add("time", s.Time)
	if s.DurationMin > 0 {
		add("duration", fmt.Sprintf("%d %s", s.DurationMin, label("minutes")))
	}
	add("attendees", strings.Join(s.Attendees, ", "))
	add("location", s.Location)
	add("phone", s.Phone)
	add("target_lang", s.TargetLang)
	add("priority", string(s.Priority))
	add("due_date", s.DueDate)
	return lines
}
