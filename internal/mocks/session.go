package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/ai-secretary/internal/domain"
)

// MockSessionStore is a mock implementation of SessionStore
type MockSessionStore struct {
	mu                 sync.Mutex
	data               map[string]domain.PendingSession
	MaxRetries         int
	SetCalls           int
	GetFunc            func(ctx context.Context, userID string) (*domain.PendingSession, bool)
	SetFunc            func(ctx context.Context, userID string, session *domain.PendingSession)
	IncrementRetryFunc func(ctx context.Context, userID string) bool
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		data:       make(map[string]domain.PendingSession),
		MaxRetries: 3,
	}
}

func (m *MockSessionStore) Get(ctx context.Context, userID string) (*domain.PendingSession, bool) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[userID]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (m *MockSessionStore) Set(ctx context.Context, userID string, session *domain.PendingSession) {
	if m.SetFunc != nil {
		m.SetFunc(ctx, userID, session)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	stored := *session
	stored.UserID = userID
	m.data[userID] = stored
}

func (m *MockSessionStore) Update(ctx context.Context, userID string, update domain.SessionUpdate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[userID]
	if !ok {
		return false
	}
	if update.Step != nil {
		s.Step = *update.Step
	}
	if update.Slots != nil {
		s.Slots = *update.Slots
	}
	if update.RetryCount != nil {
		s.RetryCount = *update.RetryCount
	}
	m.data[userID] = s
	return true
}

func (m *MockSessionStore) Clear(ctx context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
}

func (m *MockSessionStore) IncrementRetry(ctx context.Context, userID string) bool {
	if m.IncrementRetryFunc != nil {
		return m.IncrementRetryFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[userID]
	if !ok {
		return false
	}
	s.RetryCount++
	if s.RetryCount >= m.MaxRetries {
		delete(m.data, userID)
		return false
	}
	m.data[userID] = s
	return true
}

func (m *MockSessionStore) ListAll(ctx context.Context) []domain.PendingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PendingSession, 0, len(m.data))
	for _, s := range m.data {
		out = append(out, s)
	}
	return out
}

func (m *MockSessionStore) SweepExpired(ctx context.Context) int {
	return 0
}

// Has reports whether a session exists for userID.
func (m *MockSessionStore) Has(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[userID]
	return ok
}
