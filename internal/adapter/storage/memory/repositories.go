// Package memory holds process-local repositories used when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[string]domain.CalendarEvent
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]domain.CalendarEvent)}
}

func (r *EventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = *event
	return nil
}

func (r *EventRepository) FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.CalendarEvent
	for _, e := range r.events {
		if e.UserID == userID && e.Overlaps(from, to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[string]domain.Task)}
}

func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
