package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// MockCalendarService is a mock implementation of CalendarService
type MockCalendarService struct {
	mu                sync.Mutex
	Created           []domain.EventInput
	CreateEventFunc   func(ctx context.Context, userID string, input domain.EventInput) (*domain.EventResult, error)
	FindFreeSlotsFunc func(ctx context.Context, userID string, durationMin int, startISO, endISO string) ([]domain.FreeSlot, error)
}

func (m *MockCalendarService) CreateEvent(ctx context.Context, userID string, input domain.EventInput) (*domain.EventResult, error) {
	m.mu.Lock()
	m.Created = append(m.Created, input)
	m.mu.Unlock()

	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, userID, input)
	}
	return &domain.EventResult{OK: true, ID: "evt-1", Provider: "mock"}, nil
}

func (m *MockCalendarService) FindFreeSlots(ctx context.Context, userID string, durationMin int, startISO, endISO string) ([]domain.FreeSlot, error) {
	if m.FindFreeSlotsFunc != nil {
		return m.FindFreeSlotsFunc(ctx, userID, durationMin, startISO, endISO)
	}
	return nil, nil
}

// CreatedCount returns how many events were requested.
func (m *MockCalendarService) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

// MockTaskService is a mock implementation of TaskService
type MockTaskService struct {
	mu             sync.Mutex
	Created        []domain.TaskInput
	CreateTaskFunc func(ctx context.Context, userID string, input domain.TaskInput) (*domain.TaskResult, error)
}

func (m *MockTaskService) CreateTask(ctx context.Context, userID string, input domain.TaskInput) (*domain.TaskResult, error) {
	m.mu.Lock()
	m.Created = append(m.Created, input)
	m.mu.Unlock()

	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, userID, input)
	}
	return &domain.TaskResult{
		OK:   true,
		Task: &domain.Task{ID: "task-1", UserID: userID, Title: input.Title, Status: domain.TaskStatusOpen, Priority: input.Priority},
	}, nil
}

// CreatedCount returns how many tasks were requested.
func (m *MockTaskService) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}
