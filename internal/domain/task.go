package domain

import (
	"time"

	"github.com/lib/pq"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskInput is what the dialogue core asks the task board to create.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueAt       string   `json:"due_at,omitempty"` // YYYY-MM-DD
	Priority    Priority `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// TaskResult is the task board's answer to CreateTask.
type TaskResult struct {
	OK    bool   `json:"ok"`
	Task  *Task  `json:"task,omitempty"`
	Error string `json:"error,omitempty"`
}

type Task struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"user_id" gorm:"index"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	DueAt       *time.Time     `json:"due_at,omitempty"`
	Status      TaskStatus     `json:"status"`
	Priority    Priority       `json:"priority"`
	Tags        pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
