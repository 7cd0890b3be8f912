package domain

import "time"

// ActionEvent is published after the dialogue core runs a downstream action.
type ActionEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Intent     Intent    `json:"intent"`
	OK         bool      `json:"ok"`
	ResourceID string    `json:"resource_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
