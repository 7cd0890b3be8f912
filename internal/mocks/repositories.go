package mocks

import (
	"context"
	"time"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	Saved                 []*domain.CalendarEvent
	SaveFunc              func(ctx context.Context, event *domain.CalendarEvent) error
	FindByUserBetweenFunc func(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error)
}

func (m *MockEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, event)
	}
	m.Saved = append(m.Saved, event)
	return nil
}

func (m *MockEventRepository) FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	if m.FindByUserBetweenFunc != nil {
		return m.FindByUserBetweenFunc(ctx, userID, from, to)
	}
	var out []domain.CalendarEvent
	for _, e := range m.Saved {
		if e.UserID == userID && e.Overlaps(from, to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	Saved            []*domain.Task
	SaveFunc         func(ctx context.Context, task *domain.Task) error
	FindByUserIDFunc func(ctx context.Context, userID string) ([]domain.Task, error)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, task)
	}
	m.Saved = append(m.Saved, task)
	return nil
}

func (m *MockTaskRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Task, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	var out []domain.Task
	for _, t := range m.Saved {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}
