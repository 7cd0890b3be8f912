package domain

import "time"

// StepConfirm marks a session waiting for a yes/no answer or more details.
const StepConfirm = "confirm"

// PendingSession is the single in-flight dialogue for a user.
type PendingSession struct {
	UserID     string    `json:"user_id"`
	Step       string    `json:"step"`
	Intent     Intent    `json:"intent"`
	Slots      Slots     `json:"slots"`
	Language   string    `json:"language,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	RetryCount int       `json:"retry_count"`
}

// Expired reports whether the session is no longer valid at now.
func (p *PendingSession) Expired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

// SessionUpdate carries the fields to change on an existing session.
// Nil fields are left untouched.
type SessionUpdate struct {
	Step       *string
	Slots      *Slots
	RetryCount *int
}
