package mocks

import (
	"context"
	"sync"
)

// LLMCall records one Complete invocation.
type LLMCall struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// MockLLM is a mock implementation of the LLMClient interface
type MockLLM struct {
	mu           sync.Mutex
	Calls        []LLMCall
	Response     string
	Err          error
	CompleteFunc func(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, LLMCall{Prompt: prompt, Temperature: temperature, MaxTokens: maxTokens})
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, temperature, maxTokens)
	}
	return m.Response, m.Err
}

// CallCount returns how many times Complete was invoked.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
