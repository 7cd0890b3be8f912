package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/seu-repo/ai-secretary/internal/ports"
)

// MockKVStore is a mock implementation of the KVStore interface
type MockKVStore struct {
	mu         sync.Mutex
	data       map[string]string
	TTLs       map[string]time.Duration
	SetEXFunc  func(ctx context.Context, key string, value string, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	DeleteFunc func(ctx context.Context, keys ...string) error
	KeysFunc   func(ctx context.Context, prefix string) ([]string, error)
	PingFunc   func(ctx context.Context) error
	CloseFunc  func() error
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		data: make(map[string]string),
		TTLs: make(map[string]time.Duration),
	}
}

func (m *MockKVStore) SetEX(ctx context.Context, key string, value string, ttl time.Duration) error {
	if m.SetEXFunc != nil {
		return m.SetEXFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.TTLs[key] = ttl
	return nil
}

func (m *MockKVStore) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return "", ports.ErrKeyNotFound
}

func (m *MockKVStore) Delete(ctx context.Context, keys ...string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, keys...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.TTLs, k)
	}
	return nil
}

func (m *MockKVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if m.KeysFunc != nil {
		return m.KeysFunc(ctx, prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MockKVStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockKVStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Put stores a raw value, bypassing SetEXFunc.
func (m *MockKVStore) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Raw returns the stored value for key, bypassing GetFunc.
func (m *MockKVStore) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Drop removes keys, bypassing DeleteFunc.
func (m *MockKVStore) Drop(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.TTLs, k)
	}
}
